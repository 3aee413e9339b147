package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 60 * time.Second
	gracefulEnvironKey  = "IS_GRACEFUL"
	gracefulListenerFD  = 3
)

// GraceServer serves HTTP with graceful shutdown on SIGTERM and zero-downtime
// restart on SIGUSR2 (the listener fd is handed to the new process).
type GraceServer struct {
	*http.Server

	listener     net.Listener
	isGraceful   bool
	shutdownChan chan struct{}
	onShutdown   func()
}

// NewGraceServer creates a server with sane timeouts. onShutdown runs after
// the HTTP server has drained, before the process exits; use it to close
// storage handles.
func NewGraceServer(addr string, handler http.Handler, onShutdown func()) *GraceServer {
	return &GraceServer{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		isGraceful:   os.Getenv(gracefulEnvironKey) != "",
		shutdownChan: make(chan struct{}),
		onShutdown:   onShutdown,
	}
}

// ListenAndServe starts serving and blocks until shutdown completes.
func (srv *GraceServer) ListenAndServe() error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln

	go srv.handleSignals()
	err = srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	<-srv.shutdownChan
	if srv.onShutdown != nil {
		srv.onShutdown()
	}
	return err
}

func (srv *GraceServer) listen() (net.Listener, error) {
	if srv.isGraceful {
		file := os.NewFile(gracefulListenerFD, "")
		ln, err := net.FileListener(file)
		if err != nil {
			return nil, fmt.Errorf("net.FileListener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen: %w", err)
	}
	return ln, nil
}

func (srv *GraceServer) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range sigChan {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("received SIGTERM, shutting down HTTP server")
			srv.shutdown()
			return
		case syscall.SIGUSR2:
			Sugar.Info("received SIGUSR2, restarting HTTP server")
			if pid, err := srv.forkChild(); err != nil {
				Sugar.Errorf("restart failed: %v, continue serving", err)
			} else {
				Sugar.Infof("child started, pid=%d; closing old server", pid)
				srv.shutdown()
				return
			}
		}
	}
}

func (srv *GraceServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	}
	close(srv.shutdownChan)
}

func (srv *GraceServer) forkChild() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("get listener file: %w", err)
	}

	envs := []string{gracefulEnvironKey + "=1"}
	for _, e := range os.Environ() {
		if e != gracefulEnvironKey+"=1" {
			envs = append(envs, e)
		}
	}

	attr := &syscall.ProcAttr{
		Env:   envs,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	}
	pid, err := syscall.ForkExec(os.Args[0], os.Args, attr)
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}

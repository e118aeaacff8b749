package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/framecore/internal/core"
	"github.com/1broseidon/framecore/internal/devices"
)

// Source is the running instance the server reports on.
type Source interface {
	// Status returns the last published frame status, nil before init.
	Status() *core.Status
	// RequestClose asks the frame loop to stop. Safe from any goroutine.
	RequestClose()
}

const connTimeout = 5 * time.Second

// Server answers control requests on a unix socket.
type Server struct {
	socketPath string
	listener   net.Listener
	src        Source
	log        *slog.Logger

	wg           sync.WaitGroup
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server for socketPath, removing a stale socket left
// by a previous run.
func NewServer(socketPath string, src Source, logger *slog.Logger) (*Server, error) {
	if socketPath == "" {
		return nil, errors.New("ipc: socket path is empty")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return &Server{
		socketPath: socketPath,
		src:        src,
		log:        logger.With("component", "ipc"),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("IPC accept error", "error", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one request per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(connTimeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Debug("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.write(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}
	s.write(conn, s.handleCommand(req))
}

func (s *Server) write(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.log.Warn("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Debug("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	if req.Command == CommandRequestClose {
		s.log.Info("close requested over IPC")
		s.src.RequestClose()
		resp, _ := NewOKResponse(nil)
		return resp
	}

	st := s.src.Status()
	if st == nil {
		return NewErrorResponse("core is not initialized")
	}

	var data any
	switch req.Command {
	case CommandGetStatus:
		data = st
	case CommandGetWindow:
		data = st.Window
	case CommandGetDevices:
		devs := st.Devices
		if devs == nil {
			devs = []devices.WorkerInfo{}
		}
		data = devs
	case CommandGetInput:
		data = st.Input
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

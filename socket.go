package main

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Messages larger than this are rejected before allocation.
const maxMessageSize = 16 << 20

var ErrMessageTooLarge = errors.New("message too large")

// UpdateCallback is called after a socket command has been executed with
// the command's action and whether it succeeded
type UpdateCallback func(action string, success bool)

// SocketClient connects to a running socket server
type SocketClient struct {
	conn net.Conn
}

// NewSocketClient connects to a running socket server
func NewSocketClient(socketPath string) (*SocketClient, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket server at %s: %w", socketPath, err)
	}

	return &SocketClient{conn: conn}, nil
}

// Close closes the connection to the socket server
func (sc *SocketClient) Close() error {
	if sc.conn != nil {
		return sc.conn.Close()
	}
	return nil
}

// Execute sends a command and returns the decoded response
func (sc *SocketClient) Execute(cmdJSON string) (map[string]interface{}, error) {
	if err := writeMessage(sc.conn, []byte(cmdJSON)); err != nil {
		return nil, err
	}

	data, err := readMessage(sc.conn)
	if err != nil {
		return nil, err
	}

	var response map[string]interface{}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return response, nil
}

// Call marshals an action and its params into a command and executes it.
// A response with success=false is returned as an error.
func (sc *SocketClient) Call(action string, params map[string]interface{}) (map[string]interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	cmdJSON, err := json.Marshal(Command{Action: action, Params: params})
	if err != nil {
		return nil, err
	}

	resp, err := sc.Execute(string(cmdJSON))
	if err != nil {
		return nil, fmt.Errorf("socket error: %w", err)
	}

	if success, ok := resp["success"].(bool); !ok || !success {
		msg, _ := resp["error"].(string)
		if msg == "" {
			msg = "request failed"
		}
		return nil, errors.New(msg)
	}

	result, _ := resp["result"].(map[string]interface{})
	return result, nil
}

// SocketServer serves the session over a Unix domain socket
type SocketServer struct {
	socketPath string
	core       *TextConvCore
	coreMu     sync.Mutex
	listener   net.Listener
	mu         sync.Mutex
	done       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once
	callbacks  []UpdateCallback
}

// NewSocketServer creates a new socket server instance
func NewSocketServer(socketPath string, core *TextConvCore) *SocketServer {
	return &SocketServer{
		socketPath: socketPath,
		core:       core,
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		callbacks:  make([]UpdateCallback, 0),
	}
}

// SetUpdateCallback adds a callback to be called after each socket command
func (ss *SocketServer) SetUpdateCallback(callback UpdateCallback) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.callbacks = append(ss.callbacks, callback)
}

// Start begins listening on the Unix domain socket
func (ss *SocketServer) Start() error {
	if err := os.Remove(ss.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", ss.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket %s: %w", ss.socketPath, err)
	}

	ss.listener = listener
	log.Infof("socket server listening on %s", ss.socketPath)

	go ss.handleSignals()
	go ss.acceptConnections()

	return nil
}

func (ss *SocketServer) acceptConnections() {
	for {
		conn, err := ss.listener.Accept()
		if err != nil {
			select {
			case <-ss.done:
				return
			default:
				log.Warnf("error accepting connection: %v", err)
				continue
			}
		}

		go ss.handleClient(conn)
	}
}

// handleClient serves commands from one client until it disconnects
func (ss *SocketServer) handleClient(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	log.Debugf("[%s] client connected", connID)

	for {
		data, err := readMessage(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("[%s] client disconnected", connID)
				return
			}
			select {
			case <-ss.done:
			default:
				log.Warnf("[%s] error reading from client: %v", connID, err)
			}
			return
		}

		// Commands from all clients share one session.
		ss.coreMu.Lock()
		response := ss.core.ExecuteCommand(string(data))
		ss.coreMu.Unlock()

		if err := writeMessage(conn, []byte(response)); err != nil {
			log.Warnf("[%s] error writing to client: %v", connID, err)
			return
		}

		ss.mu.Lock()
		callbacks := append([]UpdateCallback{}, ss.callbacks...)
		ss.mu.Unlock()
		if len(callbacks) == 0 {
			continue
		}
		action := gjson.GetBytes(data, "action").String()
		success := gjson.Get(response, "success").Bool()
		for _, callback := range callbacks {
			callback(action, success)
		}
	}
}

func (ss *SocketServer) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Infof("received %v, shutting down socket server", sig)
		ss.Stop()
	case <-ss.done:
	}
}

// Stop shuts down the socket server. It is safe to call more than once.
func (ss *SocketServer) Stop() error {
	var err error
	ss.stopOnce.Do(func() {
		close(ss.done)
		if ss.listener != nil {
			err = ss.listener.Close()
		}
		os.Remove(ss.socketPath)
		close(ss.stopped)
	})
	return err
}

// Wait blocks until the server is fully shut down
func (ss *SocketServer) Wait() {
	<-ss.stopped
}

// ============================================================================
// Length-Prefixed Protocol (4-byte big-endian length + data)
// ============================================================================

func readMessage(r io.Reader) ([]byte, error) {
	lengthBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lengthBuf); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBuf)
	if length > maxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	return data, nil
}

func writeMessage(w io.Writer, data []byte) error {
	buf := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[4:], data)

	_, err := w.Write(buf)
	return err
}

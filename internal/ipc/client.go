package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/framecore/internal/core"
	"github.com/1broseidon/framecore/internal/devices"
	"github.com/1broseidon/framecore/internal/input"
	"github.com/1broseidon/framecore/internal/runtimepath"
	"github.com/1broseidon/framecore/internal/window"
)

// Client handles IPC communication with a running instance
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to framecore: %w (is it running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("framecore error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) get(cmd CommandType, out any) error {
	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves the last published frame status.
func (c *Client) GetStatus() (*core.Status, error) {
	var st core.Status
	if err := c.get(CommandGetStatus, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetWindow retrieves window geometry and mode.
func (c *Client) GetWindow() (*window.Info, error) {
	var info window.Info
	if err := c.get(CommandGetWindow, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetDevices lists the raw input device workers.
func (c *Client) GetDevices() ([]devices.WorkerInfo, error) {
	var devs []devices.WorkerInfo
	if err := c.get(CommandGetDevices, &devs); err != nil {
		return nil, err
	}
	return devs, nil
}

// GetInput retrieves the input summary.
func (c *Client) GetInput() (*input.Summary, error) {
	var sum input.Summary
	if err := c.get(CommandGetInput, &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

// RequestClose asks the running instance to close its window.
func (c *Client) RequestClose() error {
	_, err := c.sendRequest(&Request{Command: CommandRequestClose})
	return err
}

// Ping checks if the instance is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

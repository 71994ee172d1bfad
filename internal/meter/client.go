package meter

import (
	"fmt"
	"sync"
	"time"

	"github.com/simonvetter/modbus"
)

// Client is a reconnecting Modbus TCP connection to the plant's energy meter.
type Client struct {
	client  *modbus.ModbusClient
	mu      sync.Mutex
	ip      string
	port    int
	slaveID uint8
	timeout time.Duration
}

func NewClient(ip string, port int, slaveID uint8, timeout time.Duration) *Client {
	return &Client{
		ip:      ip,
		port:    port,
		slaveID: slaveID,
		timeout: timeout,
	}
}

func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	client, err := modbus.NewClient(&modbus.ClientConfiguration{
		URL:     fmt.Sprintf("tcp://%s:%d", c.ip, c.port),
		Timeout: c.timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create modbus client: %w", err)
	}

	if err := client.Open(); err != nil {
		return fmt.Errorf("failed to connect to meter %s:%d: %w", c.ip, c.port, err)
	}

	client.SetUnitId(c.slaveID)
	c.client = client
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

func (c *Client) ReadInputRegisters(address uint16, quantity uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	regs, err := c.client.ReadRegisters(address, quantity, modbus.INPUT_REGISTER)
	if err != nil {
		return nil, fmt.Errorf("failed to read input registers at %d: %w", address, err)
	}
	return regs, nil
}

func (c *Client) Reconnect() error {
	c.Close()
	return c.Connect()
}

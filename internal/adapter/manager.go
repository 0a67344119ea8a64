package adapter

import "sync"

// ClientManager is the [Factory] handed to subcommands. It keeps returned
// clients for reuse so that concurrent workers do not re-authenticate for
// every request.
type ClientManager struct {
	newClient func() Client

	mu   sync.Mutex
	idle []Client
}

// NewClientManager returns a manager creating clients with newClient.
func NewClientManager(newClient func() Client) *ClientManager {
	return &ClientManager{newClient: newClient}
}

// NewStandardManager returns a manager of [StandardClient] values.
func NewStandardManager(opts StandardOptions) *ClientManager {
	return NewClientManager(func() Client { return NewStandardClient(opts) })
}

// NewDirectManager returns a manager of [DirectClient] values.
func NewDirectManager(opts DirectOptions) *ClientManager {
	return NewClientManager(func() Client { return NewDirectClient(opts) })
}

// GetClient implements [Factory].
func (m *ClientManager) GetClient() Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n := len(m.idle); n > 0 {
		c := m.idle[n-1]
		m.idle = m.idle[:n-1]
		return c
	}
	return m.newClient()
}

// PutClient implements [Factory]. Nil clients are ignored.
func (m *ClientManager) PutClient(c Client) {
	if c == nil {
		return
	}

	m.mu.Lock()
	m.idle = append(m.idle, c)
	m.mu.Unlock()
}

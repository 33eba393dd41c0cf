package ledger

import "sync"

// keyLock serializa ejecuciones por clave (product_id) dentro del proceso.
// Productos distintos avanzan en paralelo. Es el fast path del coordinador de
// concurrencia: reduce la tasa de reintentos optimistas bajo contención local,
// pero la corrección entre procesos la garantiza la escritura condicional del
// Store, no este lock.
type keyLock struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int // entradas vivas; al llegar a 0 se elimina del mapa
}

func newKeyLock() *keyLock {
	return &keyLock{entries: make(map[string]*lockEntry)}
}

// withLock ejecuta fn con exclusión mutua entre todos los callers que usen la
// misma clave sobre esta instancia.
func (l *keyLock) withLock(key string, fn func() error) error {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	err := fn()
	e.mu.Unlock()

	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
	return err
}

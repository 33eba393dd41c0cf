package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLock_ExclusionPorClave(t *testing.T) {
	l := newKeyLock()

	// Contador sin sincronización propia: si withLock no serializa, el test
	// falla con -race o con un total incorrecto.
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.withLock("p1", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
}

func TestKeyLock_ClavesDistintasNoSeBloquean(t *testing.T) {
	l := newKeyLock()

	holding := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.withLock("p1", func() error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	// Con p1 tomado, p2 debe avanzar sin esperar.
	done := make(chan struct{})
	go func() {
		_ = l.withLock("p2", func() error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("una clave distinta no debe quedar bloqueada")
	}
	close(release)
}

func TestKeyLock_LiberaEntradasSinUso(t *testing.T) {
	l := newKeyLock()
	require.NoError(t, l.withLock("p1", func() error { return nil }))
	require.NoError(t, l.withLock("p2", func() error { return nil }))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.entries, "las entradas sin refs se eliminan del mapa")
}

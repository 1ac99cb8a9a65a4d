package task_test

import (
	"sync"
	"testing"

	"cialist/internal/task"

	"github.com/stretchr/testify/assert"
)

func TestToken(t *testing.T) {
	tok := task.NewToken()
	assert.False(t, tok.IsQuit())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok.Quit()
		}()
	}
	wg.Wait()

	assert.True(t, tok.IsQuit())
	<-tok.Done()
}

func TestZeroAndNilToken(t *testing.T) {
	var zero task.Token
	assert.False(t, zero.IsQuit())
	zero.Quit()
	assert.True(t, zero.IsQuit())

	var nilTok *task.Token
	assert.False(t, nilTok.IsQuit())
}

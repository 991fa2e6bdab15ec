package tui

import (
	"testing"
	"time"

	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/stretchr/testify/require"
)

func waitMsg(t *testing.T, b *Bridge) any {
	t.Helper()
	ch := make(chan any, 1)
	go func() { ch <- b.Wait()() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("bridge did not signal")
		return nil
	}
}

func TestBridge_CoalescesToLatest(t *testing.T) {
	t.Parallel()
	b := NewBridge()
	defer b.Close()

	b.SetLoading(true)
	b.Render(dex.View{Cycle: 1, Page: 1})
	b.Render(dex.View{Cycle: 2, Page: 3})

	msg, ok := waitMsg(t, b).(bridgeMsg)
	require.True(t, ok)
	require.True(t, msg.HasView)
	require.True(t, msg.Loading)
	require.Equal(t, uint64(2), msg.View.Cycle)
	require.Equal(t, 3, msg.View.Page)
}

func TestBridge_ErrorsClearOnRender(t *testing.T) {
	t.Parallel()
	b := NewBridge()
	defer b.Close()

	b.SetError(dex.MsgLoadFailed)
	msg := waitMsg(t, b).(bridgeMsg)
	require.Equal(t, dex.MsgLoadFailed, msg.Err)
	require.Equal(t, uint64(1), msg.ErrSeq)

	b.Render(dex.View{Cycle: 4})
	msg = waitMsg(t, b).(bridgeMsg)
	require.Empty(t, msg.Err)
	require.Equal(t, uint64(1), msg.ErrSeq)
}

func TestBridge_RenderNeverBlocks(t *testing.T) {
	t.Parallel()
	b := NewBridge()
	defer b.Close()

	done := make(chan struct{})
	go func() {
		for i := range 100 {
			b.Render(dex.View{Cycle: uint64(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Render blocked without a reader")
	}
}

func TestBridge_CloseReleasesWait(t *testing.T) {
	t.Parallel()
	b := NewBridge()
	b.Close()
	b.Close()
	require.Nil(t, waitMsg(t, b))
}

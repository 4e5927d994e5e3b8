package provider

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

type headNotification struct {
	Number hexutil.Uint64 `json:"number"`
}

// On registers a listener. Only EventBlock is supported; the first
// registration starts the head watcher.
func (p *JSONRPCProvider) On(event string, listener Listener) {
	if event != EventBlock {
		p.log.Warn("Unsupported provider event", "event", event)
		return
	}

	p.mu.Lock()
	p.listeners = append(p.listeners, listener)
	start := !p.watching && p.state != StateClosed
	if start {
		p.watching = true
		p.wg.Add(1)
	}
	p.mu.Unlock()

	if start {
		go p.watchBlocks()
	}
}

func (p *JSONRPCProvider) watchBlocks() {
	defer p.wg.Done()

	heads := make(chan *headNotification, 16)
	sub, err := p.client.EthSubscribe(p.ctx, heads, "newHeads")
	if err != nil {
		if !errors.Is(err, rpc.ErrNotificationsUnsupported) {
			p.log.Warn("Head subscription failed, falling back to polling", "error", err)
		}
		p.pollBlocks()
		return
	}

	p.log.Info("Subscribed to new heads")
	for {
		select {
		case <-p.ctx.Done():
			sub.Unsubscribe()
			return
		case err := <-sub.Err():
			if err != nil {
				p.log.Warn("Head subscription dropped, falling back to polling", "error", err)
				p.setState(StateConnecting)
			}
			p.pollBlocks()
			return
		case head := <-heads:
			p.handleHead(head)
		}
	}
}

// handleHead emits a newHeads notification. Nodes may send null heads.
func (p *JSONRPCProvider) handleHead(head *headNotification) {
	if head == nil {
		return
	}
	p.emit(uint64(head.Number))
}

func (p *JSONRPCProvider) pollBlocks() {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	var last uint64
	seen := false
	for {
		n, err := p.BlockNumber(p.ctx)
		if err != nil {
			p.log.Debug("Head poll failed", "error", err)
		} else if !seen || n > last {
			last, seen = n, true
			p.emit(n)
		}

		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *JSONRPCProvider) emit(blockNumber uint64) {
	p.mu.RLock()
	listeners := make([]Listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.RUnlock()

	for _, l := range listeners {
		l(blockNumber)
	}
}

package game

import "sync"

// commandBuffer stores staged commands in a fixed-size ring. Safe for
// concurrent producers (connection goroutines, the AI runner) and the single
// tick-loop consumer. Each slot may fill at most half the ring, so one
// flooding player can never starve the other side's commands.
type commandBuffer struct {
	mu        sync.Mutex
	data      []Command
	head      int
	tail      int
	count     int
	perSlot   [2]int
	slotLimit int
}

func newCommandBuffer(capacity int) *commandBuffer {
	if capacity < 2 {
		capacity = 2
	}
	return &commandBuffer{
		data:      make([]Command, capacity),
		slotLimit: capacity / 2,
	}
}

// Push stages a command, returning false if the ring or the sender's slot
// share is full. A full buffer only ever costs the flooding producer its own
// command.
func (b *commandBuffer) Push(cmd Command) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == len(b.data) {
		return false
	}
	if cmd.Slot >= 0 && cmd.Slot < 2 {
		if b.perSlot[cmd.Slot] >= b.slotLimit {
			return false
		}
		b.perSlot[cmd.Slot]++
	}
	b.data[b.tail] = cmd
	b.tail = (b.tail + 1) % len(b.data)
	b.count++
	return true
}

// Drain returns all staged commands in FIFO order and clears the buffer.
func (b *commandBuffer) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == 0 {
		return nil
	}
	commands := make([]Command, b.count)
	for i := 0; i < b.count; i++ {
		commands[i] = b.data[(b.head+i)%len(b.data)]
	}
	b.head = 0
	b.tail = 0
	b.count = 0
	b.perSlot = [2]int{}
	return commands
}

// Len reports the number of staged commands.
func (b *commandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

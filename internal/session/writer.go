package session

// pending is one mutation waiting for the writer.
type pending struct {
	snap Snapshot
	keys []string
}

func (s *Store) enqueue(snap Snapshot, keys []string) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	if s.closed {
		s.logger.Debug().Ctx(s.ctx).
			Str("operation", "save").
			Strs("keys", keys).
			Msg("store closed, change kept in memory only")
		return
	}
	s.queue = append(s.queue, pending{snap: snap, keys: keys})
	s.queueCond.Broadcast()
}

// runWriter drains the queue one entry at a time until Close.
func (s *Store) runWriter() {
	defer close(s.done)

	for {
		s.queueMu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.queueCond.Wait()
		}
		if len(s.queue) == 0 {
			s.queueMu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue[0] = pending{}
		s.queue = s.queue[1:]
		s.writing = true
		s.queueMu.Unlock()

		s.save(next.snap, next.keys)
		s.notify(next.snap)

		s.queueMu.Lock()
		s.writing = false
		s.queueCond.Broadcast()
		s.queueMu.Unlock()
	}
}

// Flush blocks until every mutation made so far has been saved and delivered
// to observers. Calling it from an observer deadlocks.
func (s *Store) Flush() {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	for len(s.queue) > 0 || s.writing {
		s.queueCond.Wait()
	}
}

// Close flushes pending saves and stops the writer. Mutations after Close
// still change the in-memory session but are no longer persisted. Close is
// safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.queueMu.Lock()
		s.closed = true
		s.queueCond.Broadcast()
		s.queueMu.Unlock()
	})
	<-s.done
}

package store

// MemStore keeps records in memory. Used by tests and as the driver's
// in-memory mirror backing when no durability is wanted.
type MemStore struct {
	recs []Record

	// AppendErr, when set, is returned by the next Append. Lets tests
	// exercise sink failure paths.
	AppendErr error
}

func (s *MemStore) Append(rec Record) error {
	if s.AppendErr != nil {
		err := s.AppendErr
		s.AppendErr = nil
		return err
	}
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemStore) Load() ([]Record, error) {
	out := make([]Record, len(s.recs))
	copy(out, s.recs)
	return out, nil
}

func (s *MemStore) Close() error { return nil }

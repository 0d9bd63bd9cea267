package prefetch

// AllowedNow reports whether a prefetch of the given priority should
// proceed under the current config and network conditions. The check is
// advisory: actual concurrency is bounded by permit acquisition, this only
// lets activities bail out early instead of queueing work the network
// cannot absorb.
func (s *Scheduler) AllowedNow(priority Priority) bool {
	s.mu.RLock()
	cfg := s.cfg
	sem := s.sem
	s.mu.RUnlock()

	if !cfg.Enabled {
		return false
	}

	s.netMu.RLock()
	net := s.net
	s.netMu.RUnlock()

	// Conditions were never reported: skip the network checks.
	if net != nil {
		if cfg.RespectSaveData && net.SaveData {
			return false
		}
		if cfg.WifiOnly && net.ConnectionType == "cellular" {
			return false
		}
		switch net.EffectiveType {
		case "slow-2g", "2g":
			return false
		case "3g":
			if priority != PriorityHigh {
				return false
			}
		}
	}

	return len(sem) < cap(sem)
}

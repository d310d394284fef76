package wall

// State is the caller-owned record of the most recent layout of a wall.
//
// It pairs the normalized configuration with the last successful result so
// a resize handler can recompute with the same options. State is not safe
// for concurrent mutation; each recompute replaces Result wholesale.
type State struct {
	Config Config
	Result Result
}

// Initialize runs the first layout pass and returns the state that owns it.
func Initialize(items []Item, containerWidth float64, cfg Config) (*State, error) {
	cfg = cfg.Normalize()
	res, err := Layout(items, containerWidth, cfg)
	if err != nil {
		return nil, err
	}
	return &State{Config: cfg, Result: res}, nil
}

// Recompute re-runs the layout with the stored configuration, typically
// after the container width changed. On error the previous Result is kept.
func (s *State) Recompute(items []Item, containerWidth float64) error {
	res, err := Layout(items, containerWidth, s.Config)
	if err != nil {
		return err
	}
	s.Result = res
	return nil
}

// Rows returns the number of rows in the current result.
func (s *State) Rows() int { return len(s.Result.Rows) }

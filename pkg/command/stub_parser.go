package command

import "context"

// StubParser returns a preconfigured intent, or an error, without calling any
// model endpoint.
type StubParser struct {
	Intent Intent
	Err    error
}

func (p *StubParser) Parse(ctx context.Context, query string) (Intent, error) {
	if p.Err != nil {
		return Intent{}, p.Err
	}
	return p.Intent, nil
}

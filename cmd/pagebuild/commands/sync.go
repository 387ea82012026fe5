package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/pagebuild/internal/assetsync"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	Source      string `arg:"" help:"Source file" type:"path"`
	Destination string `arg:"" help:"Destination file" type:"path"`
}

func (s *SyncCmd) Run(g *Global, _ *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	res, err := assetsync.New().Sync(ctx, assetsync.Task{Source: s.Source, Destination: s.Destination})
	if err != nil {
		return err
	}

	switch res.Outcome {
	case assetsync.OutcomeCopied:
		_, _ = fmt.Fprintf(g.Out, "copied %s -> %s (%s)\n", s.Source, s.Destination,
			humanize.Bytes(uint64(res.Bytes))) // #nosec G115 -- never negative
	default:
		_, _ = fmt.Fprintf(g.Out, "up to date: %s\n", s.Destination)
	}
	return nil
}

package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"
)

// ProfilesList prints the configured taste profiles.
func (r *Runner) ProfilesList(ctx context.Context, cmd *cli.Command) error {
	profiles, err := r.loadProfiles(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profiles, true)
	}

	r.writePlainHeader("Taste profiles")
	for _, p := range profiles {
		genres := "any genre"
		if len(p.AcceptedGenres) > 0 {
			genres = strings.Join(p.AcceptedGenres, ", ")
		}
		r.writePlain("%-24s %3d tracks  %-8s  %s\n", p.Name, p.Target(), p.Policy(), genres)
		if p.Tempo != nil {
			r.writePlain("%-24s bpm %d-%d\n", "", p.Tempo.Min, p.Tempo.Max)
		}
	}
	return nil
}

// ProfilesValidate loads and validates the profile file.
func (r *Runner) ProfilesValidate(ctx context.Context, cmd *cli.Command) error {
	profiles, err := r.loadProfiles(cmd)
	if err != nil {
		return err
	}

	r.writePlain("✓ %d profile(s) valid\n", len(profiles))
	return nil
}

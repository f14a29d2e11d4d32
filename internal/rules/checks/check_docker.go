package checks

import (
	"context"

	"mlopsaudit/internal/rules"
	"mlopsaudit/internal/scan"
)

type DockerCheck struct{}

func (c *DockerCheck) ID() string {
	return "docker"
}

func (c *DockerCheck) Title() string {
	return "Containerization"
}

func (c *DockerCheck) Description() string {
	return "Verifies that a Dockerfile or docker-compose.yml exists."
}

func (c *DockerCheck) Evaluate(ctx context.Context, s *scan.Summary) (rules.Result, error) {
	files, err := bucket(s, scan.CategoryDockerFiles)
	if err != nil {
		return rules.Result{}, err
	}
	return rules.PresenceResult(c.ID(), "has", len(files) > 0), nil
}

package bootstrap

import (
	"context"
	"testing"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/config"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Fixtures(t *testing.T) {
	cfg := &config.Config{DataSource: config.SourceFixtures, TransitionPolicy: "strict", AWSRegion: "eu-central-1"}
	c, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	all, err := c.Repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, fixtures.AssignmentCount)
	assert.Equal(t, "strict", c.Transitions.Policy().Name())
	assert.False(t, c.Exports.Enabled())
}

func TestBuild_Rejects(t *testing.T) {
	_, err := Build(context.Background(), &config.Config{DataSource: config.SourceFixtures, TransitionPolicy: "lenient"})
	assert.Error(t, err)

	_, err = Build(context.Background(), &config.Config{DataSource: "redis"})
	assert.Error(t, err)
}

package domain_test

import (
	"testing"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "mark slam", domain.NormalizeName("  Mark   Slam "))
	assert.Equal(t, "mark slam", domain.NormalizeName("MARK SLAM"))
	assert.Equal(t, "", domain.NormalizeName("   "))
}

func TestSameName(t *testing.T) {
	assert.True(t, domain.SameName("Mark Slam", " mark   slam "))
	assert.False(t, domain.SameName("Mark Slam", "Mark Slamm"))
}

func TestLadderPlayer_FullName(t *testing.T) {
	p := domain.LadderPlayer{FirstName: "Mark", LastName: "Slam"}
	assert.Equal(t, "Mark Slam", p.FullName())
}

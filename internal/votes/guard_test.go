package votes

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBallotAcceptsEscapedAndPlainJSON(t *testing.T) {
	id := uuid.New()
	plain := `["` + id.String() + `"]`

	for _, raw := range []string{plain, url.QueryEscape(plain)} {
		ballot := ParseBallot(raw)
		assert.True(t, BallotGuard{}.HasVoted(ballot, id), raw)
	}
}

func TestParseBallotTreatsGarbageAsEmpty(t *testing.T) {
	for _, raw := range []string{"", "not-json", "%7B%7D"} {
		ballot := ParseBallot(raw)
		assert.Empty(t, ballot.VotedSnackIDs(), raw)
	}
}

func TestBallotGuardRecordAndForget(t *testing.T) {
	guard := BallotGuard{}
	ballot := ParseBallot("")
	first, second := uuid.New(), uuid.New()

	guard.RecordVote(ballot, first)
	guard.RecordVote(ballot, first)
	guard.RecordVote(ballot, second)
	assert.Equal(t, []string{first.String(), second.String()}, ballot.VotedSnackIDs())

	guard.ForgetVote(ballot, first)
	assert.False(t, guard.HasVoted(ballot, first))
	assert.True(t, guard.HasVoted(ballot, second))

	decoded := ParseBallot(ballot.Encode())
	assert.Equal(t, []string{second.String()}, decoded.VotedSnackIDs())
}

func TestBallotEncodeEmpty(t *testing.T) {
	raw, err := url.QueryUnescape(ParseBallot("").Encode())
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

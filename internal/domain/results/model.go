package results

// Snapshot is a point-in-time tally for one poll. It is derived from
// committed votes on demand and never stored.
type Snapshot struct {
	PollID     int64          `json:"pollId"`
	TotalVotes int64          `json:"totalVotes"`
	Results    []OptionResult `json:"results"`
}

type OptionResult struct {
	OptionID  int64  `json:"optionId"`
	Text      string `json:"text"`
	VoteCount int64  `json:"voteCount"`
}

// Count returns the tally of optionID, or -1 if the option is not part of
// the snapshot.
func (s Snapshot) Count(optionID int64) int64 {
	for _, r := range s.Results {
		if r.OptionID == optionID {
			return r.VoteCount
		}
	}
	return -1
}

package models

import (
	"fmt"
	"time"
)

// VoteStatus is the lifecycle state of a vote.
type VoteStatus string

const (
	VoteInProgress VoteStatus = "IN_PROGRESS"
	VoteClosed     VoteStatus = "CLOSED" // terminal
)

// voteOp names every status-guarded vote operation.
type voteOp string

const (
	opAddOption    voteOp = "add an option to"
	opRemoveOption voteOp = "remove an option from"
	opCast         voteOp = "cast a ballot in"
	opClose        voteOp = "close"
	opWinner       voteOp = "read the winner of"
	opConvert      voteOp = "convert"
)

// voteOpStatus is the single transition table: which status each operation
// requires. Vote methods consult guard instead of repeating status checks.
var voteOpStatus = map[voteOp]VoteStatus{
	opAddOption:    VoteInProgress,
	opRemoveOption: VoteInProgress,
	opCast:         VoteInProgress,
	opClose:        VoteInProgress,
	opWinner:       VoteClosed,
	opConvert:      VoteClosed,
}

// guard rejects any (status, operation) pair outside the transition table.
func (s VoteStatus) guard(op voteOp) error {
	if required, ok := voteOpStatus[op]; !ok || s != required {
		return fmt.Errorf("%w: cannot %s a vote with status %s", ErrState, op, s)
	}
	return nil
}

// VoteRecord is one member's ballot for one option.
type VoteRecord struct {
	ID       RecordID
	MemberID MemberID
}

// VoteOption is one candidate location within a vote, tracking who voted
// for it. At most one record per member per option.
type VoteOption struct {
	ID           OptionID
	LocationName string
	Records      []VoteRecord
}

func newVoteOption(locationName string) (VoteOption, error) {
	if locationName == "" {
		return VoteOption{}, fmt.Errorf("%w: option location name is required", ErrValidation)
	}
	return VoteOption{ID: NewOptionID(), LocationName: locationName}, nil
}

// Count returns the option's current ballot count.
func (o *VoteOption) Count() int {
	return len(o.Records)
}

func (o *VoteOption) addRecord(member MemberID) {
	for _, r := range o.Records {
		if r.MemberID == member {
			return
		}
	}
	o.Records = append(o.Records, VoteRecord{ID: NewRecordID(), MemberID: member})
}

func (o *VoteOption) removeRecord(member MemberID) {
	for i, r := range o.Records {
		if r.MemberID == member {
			o.Records = append(o.Records[:i], o.Records[i+1:]...)
			return
		}
	}
}

// Vote is a location poll within an event. It carries the same name, memo,
// and time range shape as a Schedule, runs IN_PROGRESS → CLOSED exactly
// once, and converts into a Schedule built from the winning option.
//
// A member holds at most one live ballot across all options of the vote:
// re-voting moves the ballot rather than duplicating it. The option list is
// kept in insertion order; ties resolve to the first-inserted option.
type Vote struct {
	// ID is the unique identifier for the vote (UUID format).
	ID VoteID

	// EventID is the owning event.
	EventID EventID

	// CreatorID is the member who created the vote.
	CreatorID MemberID

	// Name is required; Memo is optional.
	Name string
	Memo string

	// Start and End bound the half-open time range [Start, End).
	Start TimeOfDay
	End   TimeOfDay

	// Status is IN_PROGRESS until Close, then CLOSED forever.
	Status VoteStatus

	// Options is the ordered candidate list, at least 2 while mutable.
	Options []VoteOption

	// CreatedAt is the Unix timestamp when the vote was created.
	CreatedAt int64
}

// NewVote creates an in-progress vote with one option per supplied location.
// At least two options are required.
func NewVote(event EventID, creator MemberID, name, memo string, start, end TimeOfDay, locationOptions []string) (*Vote, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: vote name is required", ErrValidation)
	}
	if _, err := NewTimeRange(start, end); err != nil {
		return nil, err
	}
	if len(locationOptions) < 2 {
		return nil, fmt.Errorf("%w: a vote needs at least 2 location options", ErrValidation)
	}

	v := &Vote{
		ID:        NewVoteID(),
		EventID:   event,
		CreatorID: creator,
		Name:      name,
		Memo:      memo,
		Start:     start,
		End:       end,
		Status:    VoteInProgress,
		CreatedAt: time.Now().Unix(),
	}
	for _, location := range locationOptions {
		option, err := newVoteOption(location)
		if err != nil {
			return nil, err
		}
		v.Options = append(v.Options, option)
	}
	return v, nil
}

// Range returns the vote's half-open time range.
func (v *Vote) Range() TimeRange {
	return TimeRange{Start: v.Start, End: v.End}
}

// AddOption appends a new candidate location while the vote is in progress.
func (v *Vote) AddOption(locationName string) error {
	if err := v.Status.guard(opAddOption); err != nil {
		return err
	}
	option, err := newVoteOption(locationName)
	if err != nil {
		return err
	}
	v.Options = append(v.Options, option)
	return nil
}

// RemoveOption deletes a candidate while the vote is in progress. At least
// two options must remain afterwards.
func (v *Vote) RemoveOption(optionID OptionID) error {
	if err := v.Status.guard(opRemoveOption); err != nil {
		return err
	}
	idx := v.optionIndex(optionID)
	if idx < 0 {
		return fmt.Errorf("%w: vote option does not exist", ErrNotFound)
	}
	if len(v.Options) <= 2 {
		return fmt.Errorf("%w: a vote must keep at least 2 options", ErrValidation)
	}
	v.Options = append(v.Options[:idx], v.Options[idx+1:]...)
	return nil
}

// Cast records the member's ballot for the target option. Any prior ballot
// by the member, on any option of this vote, is removed first: a re-vote is
// a move, never a duplicate.
func (v *Vote) Cast(member MemberID, optionID OptionID) error {
	if err := v.Status.guard(opCast); err != nil {
		return err
	}
	idx := v.optionIndex(optionID)
	if idx < 0 {
		return fmt.Errorf("%w: vote option does not exist", ErrNotFound)
	}
	for i := range v.Options {
		v.Options[i].removeRecord(member)
	}
	v.Options[idx].addRecord(member)
	return nil
}

// Close transitions the vote to CLOSED. Irreversible.
func (v *Vote) Close() error {
	if err := v.Status.guard(opClose); err != nil {
		return err
	}
	v.Status = VoteClosed
	return nil
}

// Results maps each option's location name to its ballot count. Callable in
// either state.
func (v *Vote) Results() map[string]int {
	results := make(map[string]int, len(v.Options))
	for i := range v.Options {
		results[v.Options[i].LocationName] = v.Options[i].Count()
	}
	return results
}

// WinningLocation returns the location with the highest ballot count once
// the vote is closed. Ties resolve to the first-inserted option, which the
// strictly-greater comparison over the insertion-ordered slice guarantees.
func (v *Vote) WinningLocation() (string, error) {
	if err := v.Status.guard(opWinner); err != nil {
		return "", err
	}
	if len(v.Options) == 0 {
		return "", fmt.Errorf("%w: vote has no options", ErrState)
	}
	winner := 0
	for i := 1; i < len(v.Options); i++ {
		if v.Options[i].Count() > v.Options[winner].Count() {
			winner = i
		}
	}
	return v.Options[winner].LocationName, nil
}

// ToSchedule builds a new Schedule from the closed vote: same event,
// creator, name, memo, and time range, with the winning option's location.
// The vote itself is never mutated or deleted by conversion.
func (v *Vote) ToSchedule() (*Schedule, error) {
	if err := v.Status.guard(opConvert); err != nil {
		return nil, err
	}
	location, err := v.WinningLocation()
	if err != nil {
		return nil, err
	}
	return NewSchedule(v.EventID, v.CreatorID, v.Name, v.Memo, v.Start, v.End, location)
}

// IsCreatedBy reports whether the member created this vote.
func (v *Vote) IsCreatedBy(member MemberID) bool {
	return v.CreatorID == member
}

// IsInProgress reports whether the vote still accepts ballots.
func (v *Vote) IsInProgress() bool { return v.Status == VoteInProgress }

// IsClosed reports whether the vote has been closed.
func (v *Vote) IsClosed() bool { return v.Status == VoteClosed }

func (v *Vote) optionIndex(optionID OptionID) int {
	for i := range v.Options {
		if v.Options[i].ID == optionID {
			return i
		}
	}
	return -1
}

package enums

// FinishState is the coarse finish progress exposed on admin listings,
// derived from which verification timestamps are set.
type FinishState string

const (
	FinishStateNone      FinishState = "NONE"
	FinishStateRequested FinishState = "REQUESTED"
	FinishStateVerified  FinishState = "VERIFIED"
)

// String implements fmt.Stringer.
func (f FinishState) String() string {
	return string(f)
}

package ledger

// Dues holds one amount per aggregated fee category. It is used both for the cached
// outstanding dues and for the persisted annual baselines.
type Dues struct {
	College   int64 `json:"college"`
	Transport int64 `json:"transport"`
	Hostel    int64 `json:"hostel"`
	Placement int64 `json:"placement"`
}

// Get returns the amount of feeType; categories without an aggregate read as zero.
func (d Dues) Get(feeType FeeType) int64 {
	switch feeType {
	case FeeCollege:
		return d.College
	case FeeTransport:
		return d.Transport
	case FeeHostel:
		return d.Hostel
	case FeePlacement:
		return d.Placement
	default:
		return 0
	}
}

// Set stores amount for feeType. Categories without an aggregate are ignored.
func (d *Dues) Set(feeType FeeType, amount int64) {
	switch feeType {
	case FeeCollege:
		d.College = amount
	case FeeTransport:
		d.Transport = amount
	case FeeHostel:
		d.Hostel = amount
	case FeePlacement:
		d.Placement = amount
	}
}

// Reduce lowers feeType by amount, flooring at zero.
func (d *Dues) Reduce(feeType FeeType, amount int64) {
	d.Set(feeType, floorZero(d.Get(feeType)-amount))
}

// Total sums all four categories.
func (d Dues) Total() int64 {
	return d.College + d.Transport + d.Hostel + d.Placement
}

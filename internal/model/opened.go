package model

// Openable is the opened flag and its date, shared by bottles and mixers.
// OpenDate is nil whenever Opened is false.
type Openable struct {
	Opened   bool  `json:"opened"`
	OpenDate *Date `json:"open_date"`
}

// SetOpened toggles the opened flag. Opening without a date assigns today;
// closing clears the date.
func (o *Openable) SetOpened(opened bool, today Date) {
	o.Opened = opened
	if !opened {
		o.OpenDate = nil
		return
	}
	if o.OpenDate == nil {
		d := today
		o.OpenDate = &d
	}
}

// normalize enforces the opened/open_date invariant.
func (o Openable) normalize(today Date) Openable {
	o.SetOpened(o.Opened, today)
	return o
}

package domain

import "fmt"

// ConfigProfile is one named CLI profile: where its ledger lives and its defaults.
type ConfigProfile struct {
	Name          string
	StoreDriver   string
	StoreDSN      string
	HourlyRateWon int64
}

func (c ConfigProfile) String() string {
	return fmt.Sprintf("%s:%s", c.StoreDriver, c.Name)
}

package core

// UserRecord is one licensed user of a client.
type UserRecord struct {
	Client   string `json:"client"`
	Name     string `json:"name"`
	UPN      string `json:"upn"`
	Licenses string `json:"licenses"`
}

// DeviceRecord is one managed computer of a client.
type DeviceRecord struct {
	Client string `json:"client"`
	Name   string `json:"name"`
	OS     string `json:"os"`
}

// ClientStats holds per-client counts.
type ClientStats struct {
	UsersCount   int `json:"usersCount"`
	DevicesCount int `json:"devicesCount"`
}

// Aggregate is the data bundle read by the dashboard.
// Field order and JSON names are part of the dashboard contract.
type Aggregate struct {
	TotalClients       int                       `json:"totalClients"`
	TotalUsersLicensed int                       `json:"totalUsersLicensed"`
	TotalDevices       int                       `json:"totalDevices"`
	AllUsers           []UserRecord              `json:"allUsers"`
	AllDevices         []DeviceRecord            `json:"allDevices"`
	PerClient          map[string]ClientStats    `json:"perClient"`
	UsersByClient      map[string][]UserRecord   `json:"usersByClient"`
	DevicesByClient    map[string][]DeviceRecord `json:"devicesByClient"`

	// BillingByClient is reserved for a billing export and is always empty.
	BillingByClient map[string]any `json:"billingByClient"`

	clients []string
}

// Clients returns the canonical client names in display order.
func (a Aggregate) Clients() []string {
	out := make([]string, len(a.clients))
	copy(out, a.clients)
	return out
}

// Summary reports the outcome of one Service run.
type Summary struct {
	RunID           string
	SourceDir       string
	OutputPath      string
	UserFiles       int
	DeviceFileFound bool
	Clients         int
	Users           int
	Devices         int
}

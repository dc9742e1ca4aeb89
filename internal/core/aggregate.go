package core

import "sort"

// BuildAggregate groups users and devices by canonical client name.
//
// The client set is every user client plus every non-empty device client,
// sorted lexicographically. Devices with an empty client still count toward
// TotalDevices and appear in AllDevices, but belong to no bucket.
func BuildAggregate(users []UserRecord, devices []DeviceRecord) Aggregate {
	if users == nil {
		users = []UserRecord{}
	}
	if devices == nil {
		devices = []DeviceRecord{}
	}

	seen := make(map[string]bool)
	for _, u := range users {
		seen[u.Client] = true
	}
	for _, d := range devices {
		if d.Client != "" {
			seen[d.Client] = true
		}
	}

	clients := make([]string, 0, len(seen))
	for c := range seen {
		clients = append(clients, c)
	}
	sort.Strings(clients)

	agg := Aggregate{
		TotalClients:       len(clients),
		TotalUsersLicensed: len(users),
		TotalDevices:       len(devices),
		AllUsers:           users,
		AllDevices:         devices,
		PerClient:          make(map[string]ClientStats, len(clients)),
		UsersByClient:      make(map[string][]UserRecord, len(clients)),
		DevicesByClient:    make(map[string][]DeviceRecord, len(clients)),
		BillingByClient:    map[string]any{},
		clients:            clients,
	}

	for _, c := range clients {
		agg.UsersByClient[c] = []UserRecord{}
		agg.DevicesByClient[c] = []DeviceRecord{}
	}
	for _, u := range users {
		agg.UsersByClient[u.Client] = append(agg.UsersByClient[u.Client], u)
	}
	for _, d := range devices {
		if _, ok := agg.DevicesByClient[d.Client]; ok {
			agg.DevicesByClient[d.Client] = append(agg.DevicesByClient[d.Client], d)
		}
	}

	for _, c := range clients {
		agg.PerClient[c] = ClientStats{
			UsersCount:   len(agg.UsersByClient[c]),
			DevicesCount: len(agg.DevicesByClient[c]),
		}
	}

	return agg
}

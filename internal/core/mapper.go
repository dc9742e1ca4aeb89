package core

import "strings"

// DefaultUserFileSuffix is the part of a user list file name that follows the client name.
const DefaultUserFileSuffix = " User List Feb.csv"

// Mapper converts CSV rows into records. It has no side effects.
type Mapper struct {
	Rules          *RuleSet
	UserFileSuffix string
}

// NewMapper returns a Mapper using rules, or the built-in table when rules is nil.
func NewMapper(rules *RuleSet, userFileSuffix string) *Mapper {
	if rules == nil {
		rules = DefaultRules()
	}
	if userFileSuffix == "" {
		userFileSuffix = DefaultUserFileSuffix
	}
	return &Mapper{Rules: rules, UserFileSuffix: userFileSuffix}
}

// ClientFromFileName derives the canonical client from a user list file name.
func (m *Mapper) ClientFromFileName(fileName string) string {
	return m.Rules.Normalize(strings.TrimSpace(strings.TrimSuffix(fileName, m.UserFileSuffix)))
}

// MapUserRow builds a UserRecord from a user list row.
// It returns false when the user is unlicensed.
func (m *Mapper) MapUserRow(row Row, fileName string) (UserRecord, bool) {
	client := m.ClientFromFileName(fileName)

	if !IsLicensed(row) {
		return UserRecord{}, false
	}

	return UserRecord{
		Client:   client,
		Name:     row.Lookup(DisplayNameColumns...),
		UPN:      row.Lookup(UPNColumns...),
		Licenses: row.Lookup(LicenseColumns...),
	}, true
}

// MapDeviceRow builds a DeviceRecord from a device export row.
// It returns false when the row has no device name.
func (m *Mapper) MapDeviceRow(row Row) (DeviceRecord, bool) {
	client := m.Rules.Normalize(row.Lookup(CompanyColumns...))

	name := row.Lookup(DeviceNameColumns...)
	if name == "" {
		return DeviceRecord{}, false
	}

	return DeviceRecord{
		Client: client,
		Name:   name,
		OS:     row.Lookup(OSColumns...),
	}, true
}

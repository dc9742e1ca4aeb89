// Package core builds the MSP dashboard data bundle from CSV exports.
//
// The package holds all domain logic independent of configuration and
// process setup, so the command, tests, or another tool can drive it with
// nothing more than a directory and an output path.
//
// # Pipeline
//
// A run is a single linear pass with no intermediate state:
//
//  1. [Loader] lists the input directory, reads every per-client user list
//     matching the configured pattern and, when present, the combined
//     device export. Files are read through a BOM-skipping, strict UTF-8
//     reader and parsed with encoding/csv.
//  2. [Mapper] turns each [Row] into a [UserRecord] or [DeviceRecord],
//     discarding unlicensed users and nameless devices.
//  3. [BuildAggregate] groups records by canonical client name.
//  4. [WriteScriptFile] writes the aggregate as a single
//     "window.X = {...};" statement for the static dashboard.
//
// [Service.Run] wires these steps together and returns a [Summary].
//
// # Client Names
//
// Client names are normalized by a [RuleSet]: an ordered table of
// substring matches loaded from the embedded rules.yaml, or from a file
// given with [LoadRules]. Matching is case-insensitive and the first rule
// containing a matching substring wins, so an input hitting two rules is
// resolved by table order.
//
// # Error Handling
//
// Missing inputs are not errors: an absent directory or device file simply
// contributes no records. Encoding and CSV syntax errors abort the run and
// are wrapped around [ErrInvalidEncoding] and [ErrInvalidCSV]; [MapError]
// turns any run error into a message with a support code.
package core

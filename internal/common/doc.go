// Package common provides shared interfaces used throughout the cfgbak application.
//
// It holds application-wide contracts with no dependencies on other internal
// packages. Currently that is the Logger interface, which separates internal
// log-file-only messages (Info, Warning, Error) from user-facing console
// output (InfoToUser, WarningToUser, Success, StatusMessage). Components
// receive a Logger by injection rather than constructing their own.
package common

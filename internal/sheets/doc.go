// Package sheets fetches the metrics range from the Google Sheets values API
// using google.golang.org/api/sheets/v4 with a static API key.
//
// The client maps every failure into the service error taxonomy: missing
// settings are a config error raised before any request is sent, non-2xx
// answers become "Google Sheets API error: <status text>", transport
// failures become "Google Sheets API request failed: <cause>" and a range
// without values is empty_data.
package sheets

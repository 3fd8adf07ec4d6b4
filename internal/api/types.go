package api

// timesResponse is the provider's yearly response. Times maps ISO date
// strings to raw day records, themselves maps from provider field names
// (fajr, fajr_jamat, magrib, asr_2, ...) to HH:MM strings.
type timesResponse struct {
	Times map[string]map[string]string `json:"times"`
}

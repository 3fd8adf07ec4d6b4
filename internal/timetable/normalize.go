package timetable

// Day is one normalized day of prayer times. Every time field is always
// present in the JSON output; values the provider did not supply are
// empty strings, never omitted. The ramadan_day, suhoor_end, and iftar
// fields appear only in the Ramadan timetable.
type Day struct {
	Date          string `json:"date"`
	RamadanDay    int    `json:"ramadan_day,omitempty"`
	Fajr          string `json:"fajr"`
	FajrJamaah    string `json:"fajr_jamaah"`
	SuhoorEnd     string `json:"suhoor_end,omitempty"`
	Sunrise       string `json:"sunrise"`
	Dhuhr         string `json:"dhuhr"`
	DhuhrJamaah   string `json:"dhuhr_jamaah"`
	Asr           string `json:"asr"`
	AsrHanafi     string `json:"asr_hanafi"`
	AsrJamaah     string `json:"asr_jamaah"`
	Maghrib       string `json:"maghrib"`
	MaghribJamaah string `json:"maghrib_jamaah"`
	Iftar         string `json:"iftar,omitempty"`
	Isha          string `json:"isha"`
	IshaJamaah    string `json:"isha_jamaah"`
}

// ProviderFields maps each output field name to the provider's field
// name. The provider spells maghrib without the h and calls
// congregational times "jamat".
var ProviderFields = map[string]string{
	"fajr":           "fajr",
	"fajr_jamaah":    "fajr_jamat",
	"sunrise":        "sunrise",
	"dhuhr":          "dhuhr",
	"dhuhr_jamaah":   "dhuhr_jamat",
	"asr":            "asr",
	"asr_hanafi":     "asr_2",
	"asr_jamaah":     "asr_jamat",
	"maghrib":        "magrib",
	"maghrib_jamaah": "magrib_jamat",
	"isha":           "isha",
	"isha_jamaah":    "isha_jamat",
}

// Normalize maps a raw provider record onto the fixed output schema.
// Total function: raw may be nil or missing any key, absent values
// become empty strings.
func Normalize(dateKey string, raw map[string]string) Day {
	get := func(field string) string { return raw[ProviderFields[field]] }
	return Day{
		Date:          dateKey,
		Fajr:          get("fajr"),
		FajrJamaah:    get("fajr_jamaah"),
		Sunrise:       get("sunrise"),
		Dhuhr:         get("dhuhr"),
		DhuhrJamaah:   get("dhuhr_jamaah"),
		Asr:           get("asr"),
		AsrHanafi:     get("asr_hanafi"),
		AsrJamaah:     get("asr_jamaah"),
		Maghrib:       get("maghrib"),
		MaghribJamaah: get("maghrib_jamaah"),
		Isha:          get("isha"),
		IshaJamaah:    get("isha_jamaah"),
	}
}

// NormalizeRamadan normalizes a day within Ramadan. Suhoor ends at Fajr
// and iftar is at Maghrib, so those fields mirror the prayer times.
func NormalizeRamadan(dateKey string, raw map[string]string, ramadanDay int) Day {
	d := Normalize(dateKey, raw)
	d.RamadanDay = ramadanDay
	d.SuhoorEnd = d.Fajr
	d.Iftar = d.Maghrib
	return d
}

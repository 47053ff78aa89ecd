package split

import (
	"bytes"
	"encoding/json"
)

// Unit is one syllable of a reading. Initial and Coda are "" when the
// syllable has none.
type Unit struct {
	Initial string `json:"initial"`
	Nucleus string `json:"nucleus"`
	Coda    string `json:"coda"`
	Tone    int    `json:"tone"`
}

// Record is one character of the source text. Pinyin is "" and InitialList
// is empty for characters without a known reading.
type Record struct {
	Char        string `json:"char"`
	Pinyin      string `json:"pinyin"`
	InitialList []Unit `json:"initial_list"`
}

// Result binds a request key to its records.
type Result struct {
	Key     string
	Records []Record
}

// Response holds one Result per request key, in request order. It encodes
// as a JSON object with the keys in that order.
type Response []Result

// Lookup returns the records bound to key.
func (r Response) Lookup(key string) ([]Record, bool) {
	for _, res := range r {
		if res.Key == key {
			return res.Records, true
		}
	}
	return nil, false
}

// Counts returns the number of characters and how many of them had no
// reading.
func (r Response) Counts() (chars, unknown int) {
	for _, res := range r {
		for _, rec := range res.Records {
			chars++
			if rec.Pinyin == "" {
				unknown++
			}
		}
	}
	return chars, unknown
}

func (r Response) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, res := range r {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(res.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		records := res.Records
		if records == nil {
			records = []Record{}
		}
		value, err := json.Marshal(records)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

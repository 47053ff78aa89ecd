// Package split turns a batch of named texts into per-character Cantonese
// readings.
//
// A request is a JSON object whose values are all strings. The response has
// the same keys in the same order, each bound to an ordered list of records:
//
//	{"greeting": [
//	  {"char": "你", "pinyin": "nei5", "initial_list": [{"initial": "n", "nucleus": "e", "coda": "i", "tone": 5}]},
//	  {"char": "好", "pinyin": "hou2", "initial_list": [{"initial": "h", "nucleus": "o", "coda": "u", "tone": 2}]}
//	]}
//
// Batches fail atomically: if any key cannot be analyzed the whole batch
// fails with an *Error naming the first failing key in request order.
package split

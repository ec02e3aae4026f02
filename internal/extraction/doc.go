// Package extraction turns free-form bank and payment notification text into
// candidate transactions.
//
// A text blob is split into messages by the segmenter. Each message passes a
// length gate and a keyword gate, then the amount extractor, which is a hard
// gate. Date, direction, merchant and category extractors each contribute a
// weighted confidence; candidates below the threshold are dropped silently.
//
// All extraction is driven by ordered rule tables (see DefaultRules) in which
// the first rule producing an acceptable value wins.
package extraction

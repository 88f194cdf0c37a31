// Package manchu transliterates romanized Manchu into Manchu script.
//
// Input is split into lines and whitespace-separated words. Each word is
// segmented into grapheme clusters and scanned left to right, matching the
// longest known phoneme unit at each position (c'y, ts', ng, dz, k', g', h')
// before falling back to a single-cluster lookup. Every unit maps to exactly
// one code point in the Mongolian block.
//
// Before lookup each cluster is NFC-normalized, so "u" followed by a
// combining macron (U+0304) reads as "ū". The typographic apostrophes
// U+2019 and U+02BC are read as the ASCII apostrophe, so "k’o" converts
// like "k'o". Letter case is never folded: "Manju" is unmappable.
//
//	out, err := manchu.ToManchu("cooha be acaha")
//	// out == "ᠴᠣᠣᡥᠠ ᠪᡝ ᠠᠴᠠᡥᠠ"
//
// Words that cannot be segmented are collected and reported together in a
// *ConversionError. With tolerant mode enabled they are copied to the output
// unchanged and the call never fails. Output has no trailing newline;
// lines after the last word are dropped.
package manchu

// Package language normalizes language identifiers across the 2-letter and
// 3-letter ISO code families plus full English names, so a "--language en"
// filter matches subtitle and audio tracks tagged "eng" or "English".
package language

// Package textutil provides text normalization and similarity scoring for
// fuzzy term matching.
//
// Normalization lowercases, applies Unicode NFKD decomposition, and strips
// combining marks so accented spellings compare equal to their base forms.
// Similarity is an indel-based ratio on the 0-100 scale: 100 * 2*LCS(a,b) /
// (len(a)+len(b)), computed over runes.
package textutil

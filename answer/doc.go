// Package answer turns questions into retrieval-augmented chat completions
// over the regulation indexes: embed the question, query every category
// index, merge and deduplicate the top matches, and ground a fixed-persona
// completion on the surviving passages.
package answer

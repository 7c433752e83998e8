// Package llm talks to an OpenAI-compatible chat completion endpoint to
// obtain folder name suggestions for books whose metadata alone does not
// yield a tidy name.
package llm

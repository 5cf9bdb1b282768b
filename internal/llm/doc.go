// Package llm provides the second-stage semantic validator for subscription
// candidates. It supports OpenAI and Anthropic providers with paced requests,
// strict verdict parsing and a single bounded retry on rate limits.
package llm

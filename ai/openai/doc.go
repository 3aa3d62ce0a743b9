// Package openai implements the ai.Embedder interface against
// OpenAI-compatible embedding APIs, including local servers such as Ollama
// running in OpenAI compatibility mode.
package openai

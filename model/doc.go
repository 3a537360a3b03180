// Package model hosts the concrete core.Generator implementations used to
// produce tutoring content.
//
// Core goals:
//   - Keep provider SDKs (OpenAI, Anthropic) out of the tutoring layer
//   - Normalize prompt-in / text-out generation behind core.Generator
//   - Facilitate lightweight mocking for tests (MockGenerator)
//
// Providers live in subpackages (model/openai, model/anthropic) so importing
// the mock alone does not pull vendor SDKs into the build.
package model

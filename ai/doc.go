// Copyright 2025 Paddock Pal
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai defines the abstractions for hosted model services used by the
// ingestion pipeline and the answer service.
//
// Two interfaces cover the model surface:
//
//   - Embedder: fixed-dimension vector embeddings, single or batched
//   - Chat: answer generation from a system persona and a user prompt
//
// A Provider bundles both behind shared configuration. The deployment runs
// exactly one embedding contract (model + dimension), resolved and validated
// at startup by Config.Validate; index creation and upserts are checked
// against it so a model/index mismatch fails before any network call.
//
// Implementation sub-packages:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles with injectable behavior
package ai

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


// Package vecstore defines the vector store gateway: index lifecycle,
// idempotent upserts, and metric-aware top-k queries.
//
// Backends:
//
//   - vecstore/badger: embedded store with brute-force similarity scan,
//     suited to a single-node deployment or tests
//   - vecstore/pgvector: Postgres with the pgvector extension, for managed
//     deployments
package vecstore

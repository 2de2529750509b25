// Package property is the StartSmart Property backend: UAE real-estate deal analysis and investor education.
//
// Layout:
//   - apps/api: the REST API (echo)
//   - apps/admin: migrations and user management CLI
//   - core: domain services (user, course, deal, assistant)
//   - services: email, cache, logger and AI generator adapters
//   - storage: postgres (sqlx) and in-memory repositories
package property

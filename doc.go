// Package campaignwizard is the backend for the multi-step campaign creation
// wizard.
/*
campaign-wizard/
├── cmd/
│   └── server/
│       └── main.go
├── internal/
│   ├── config/        environment configuration
│   ├── database/      connection, migrations and indexes
│   ├── models/        drafts, assets, submissions, users, audit
│   ├── wizard/        step schemas, field mapper, completion
│   ├── services/      wizard, submission, campaign, asset, storage
│   ├── repository/    gorm stores
│   ├── indexsync/     search index synchronizer (Postgres, NATS)
│   ├── handlers/
│   ├── middleware/
│   ├── router/
│   ├── i18n/
│   ├── logger/
│   ├── metrics/
│   ├── testutil/      in-memory stores for service tests
│   └── utils/
├── go.mod
└── go.sum
*/
package campaignwizard

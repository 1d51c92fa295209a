// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres implements the repo.Pool, repo.Conn, and repo.Tx
// interfaces using GORM and its PostgreSQL (pgx based) driver.
// Repositories, such as the boundsrp sub-package, may use the GORM
// method of Conn and Tx in order to run their queries.
package postgres

import (
	"io"
	"log"
	"os"
	"time"

	"gorm.io/gorm/logger"
)

// LogOutput is where GORM writes its warnings, such as slow queries.
// The standard output is avoided because it carries the command
// results, so they can be piped safely.
var LogOutput io.Writer = os.Stderr

func newLogger() logger.Interface {
	return logger.New(
		log.New(LogOutput, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
			// Set to false in order to log with replaced vars
			ParameterizedQueries: true,
		},
	)
}

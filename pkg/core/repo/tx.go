// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx is a database transaction which is begun by Conn.Tx and lives
// until its TxHandler returns. A Tx may not be shared between
// goroutines. The history repository wraps it with the History.Tx
// method, so boundsuc.InitDB migrates the reports table
// atomically through a HistoryTxQueryer. Failing statements roll back
// all earlier statements of the same Tx, while successful ones are
// committed together with the READ-COMMITTED isolation level of
// PostgreSQL.
type Tx interface {
	Queryer

	// IsTx keeps a Conn from satisfying the Tx interface by accident.
	IsTx()
}

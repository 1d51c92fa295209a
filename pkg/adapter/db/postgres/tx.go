// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

// Tx represents a database transaction which is begun by Conn.Tx.
// It is unsafe to be used concurrently. Statements are executed by
// the Exec and Query methods, or by the *gorm.DB of the GORM method.
// By default, a READ-COMMITTED transaction is expected from a
// PostgreSQL DBMS server. For details, read
// https://www.postgresql.org/docs/current/transaction-iso.html#XACT-READ-COMMITTED
type Tx struct {
	queryer
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the Tx interface.
func (tx *Tx) IsTx() {
}

// Package testdb provides database fixtures for tests.
//
// By default every call to Open creates a fresh file-backed SQLite database
// in the test's temporary directory with the tasks schema applied, so
// persistence tests need no external services. Setting
// TASKS_TEST_DATABASE_DRIVER and TASKS_TEST_DATABASE_URL points the same
// tests at a PostgreSQL or MySQL server instead; WithTx then keeps those
// runs isolated by rolling every test back.
//
// Basic usage:
//
//	func TestSomething(t *testing.T) {
//	    db, dialect := testdb.Open(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        taskStore := database.NewSQLTaskStore(tx, dialect, nil)
//	        // ...
//	    })
//	}
package testdb

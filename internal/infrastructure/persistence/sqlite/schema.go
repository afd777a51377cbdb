package sqlite

// Schema 內嵌資料庫結構，沿用 entry_date 唯一鍵讓入金累加成為單一 upsert。
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	trade_date TEXT NOT NULL,
	ticker TEXT NOT NULL,
	leverage INTEGER NOT NULL DEFAULT 1,
	direction TEXT NOT NULL DEFAULT 'LONG',
	investment REAL NOT NULL DEFAULT 0,
	pnl REAL NOT NULL DEFAULT 0,
	pnl_pct REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);

CREATE TABLE IF NOT EXISTS daily_summary (
	entry_date TEXT PRIMARY KEY,
	week INTEGER NOT NULL DEFAULT 1,
	trades INTEGER NOT NULL DEFAULT 0,
	start_balance REAL NOT NULL DEFAULT 0,
	profit_needed REAL NOT NULL DEFAULT 0,
	actual_profit REAL NOT NULL DEFAULT 0,
	deposit_bonus REAL NOT NULL DEFAULT 0,
	end_balance REAL NOT NULL DEFAULT 0
);
`

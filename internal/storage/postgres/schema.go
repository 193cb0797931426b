package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('active', 'inactive')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS admins_address_key ON admins (lower(address))`,

	`CREATE TABLE IF NOT EXISTS pools (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		chain_id BIGINT NOT NULL,
		vault_address TEXT NOT NULL,
		strategy_address TEXT NOT NULL,
		token_address TEXT NOT NULL,
		token_symbol TEXT NOT NULL DEFAULT '',
		token_decimals SMALLINT NOT NULL DEFAULT 0,
		slippage_tolerance INTEGER NOT NULL DEFAULT 0 CHECK (slippage_tolerance BETWEEN 0 AND 10000),
		status TEXT NOT NULL CHECK (status IN ('active', 'inactive')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS pools_chain_vault_key ON pools (chain_id, lower(vault_address))`,

	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL,
		referral_code TEXT NOT NULL,
		referred_by TEXT NOT NULL DEFAULT '',
		total_deposit NUMERIC(78, 0) NOT NULL DEFAULT 0,
		status TEXT NOT NULL CHECK (status IN ('active', 'inactive')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_address_key ON users (lower(address))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_referral_code_key ON users (upper(referral_code))`,
	`CREATE INDEX IF NOT EXISTS users_referred_by_idx ON users (lower(referred_by))`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		chain_id BIGINT NOT NULL,
		tx_hash TEXT NOT NULL,
		user_address TEXT NOT NULL,
		pool_id TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		amount NUMERIC(78, 0) NOT NULL DEFAULT 0,
		block_number BIGINT NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS transactions_chain_hash_key ON transactions (chain_id, lower(tx_hash))`,
	`CREATE INDEX IF NOT EXISTS transactions_user_idx ON transactions (lower(user_address))`,

	`CREATE TABLE IF NOT EXISTS tvl_snapshots (
		pool_id TEXT NOT NULL,
		chain_id BIGINT NOT NULL,
		strategy_address TEXT NOT NULL,
		tvl NUMERIC(78, 0) NOT NULL,
		formatted TEXT NOT NULL,
		decimals SMALLINT NOT NULL,
		method TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		fetched_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (pool_id, fetched_at)
	)`,
}

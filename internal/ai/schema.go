package ai

// txSchemaDescription describes the ClickHouse schema used for NL→SQL prompting.
//
// Keeping it in sync with the actual ClickHouse table definition in init.sql.
const txSchemaDescription = `
Database: launchpad
Table: transactions

Columns:
  - id           UInt64    -- Per-token monotonic transaction id
  - token_id     UInt64    -- Launchpad token id
  - user         String    -- Base58 public key of the trader
  - type         String    -- "buy", "sell" or "launch"
  - sol_amount   UInt64    -- Lamports traded (gross, fees included)
  - token_amount UInt64    -- Token base units traded (0 for launches)
  - price        UInt64    -- Lamports per whole token at execution (0 for launches)
  - platform_fee UInt64    -- Lamports taken as platform fee
  - creator_fee  UInt64    -- Lamports paid to the token creator
  - timestamp    DateTime  -- Commit time of the transaction (UTC)
  - signature    String    -- Base58-encoded settlement signature

Notes:
  - All amounts are integers; 1 SOL = 1_000_000_000 lamports.
  - Volume per token is SUM(sol_amount) filtered by token_id.
  - A "launch" row records the terminal migration: sol_amount is the full
    reserve that moved and platform_fee is the 20% launch cut.
  - Time filters should use timestamp, e.g. timestamp >= now() - INTERVAL 24 HOUR.
`

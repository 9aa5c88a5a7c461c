package db

import (
	"database/sql"

	"github.com/ethereum/go-ethereum/common"
)

type LightClients interface {
	GetAll() ([]*LightClientRecord, error)
	FlagPendingDeletion(address common.Address) error
}

type PostgresLightClients struct {
	db *sql.DB
}

func (p *PostgresLightClients) GetAll() ([]*LightClientRecord, error) {
	rows, err := p.db.Query(`
		SELECT l.address, l.password, l.display_name, l.seed_retry, l.current_server_name, l.pending_deletion
		FROM light_clients l
		WHERE l.pending_deletion = false
	`)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var out []*LightClientRecord

	for rows.Next() {
		record, err := deserLightClientRow(rows)

		if err != nil {
			return nil, err
		}

		out = append(out, record)
	}

	return out, rows.Err()
}

func (p *PostgresLightClients) FlagPendingDeletion(address common.Address) error {
	return NewTransactor(p.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			"UPDATE light_clients SET pending_deletion = true WHERE address = $1",
			address.Hex(),
		)
		return err
	})
}

type rawLightClient struct {
	Address           string
	Password          string
	DisplayName       string
	SeedRetry         string
	CurrentServerName sql.NullString
	PendingDeletion   bool
}

func deserLightClientRow(rows *sql.Rows) (*LightClientRecord, error) {
	raw := &rawLightClient{}
	err := rows.Scan(
		&raw.Address,
		&raw.Password,
		&raw.DisplayName,
		&raw.SeedRetry,
		&raw.CurrentServerName,
		&raw.PendingDeletion,
	)

	if err != nil {
		return nil, err
	}

	record := &LightClientRecord{
		Address:         common.HexToAddress(raw.Address),
		Password:        raw.Password,
		DisplayName:     raw.DisplayName,
		SeedRetry:       raw.SeedRetry,
		PendingDeletion: raw.PendingDeletion,
	}

	if raw.CurrentServerName.Valid {
		record.CurrentServerName = raw.CurrentServerName.String
	}

	return record, nil
}

package domain

type Customer struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Contact string `db:"contact" json:"contact"`
	Email   string `db:"email" json:"email"`
	Address string `db:"address" json:"address"`
}

func (c *Customer) GetID() int64   { return c.ID }
func (c *Customer) SetID(id int64) { c.ID = id }

type Supplier struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Contact string `db:"contact" json:"contact"`
	Email   string `db:"email" json:"email"`
	Address string `db:"address" json:"address"`
}

func (s *Supplier) GetID() int64   { return s.ID }
func (s *Supplier) SetID(id int64) { s.ID = id }

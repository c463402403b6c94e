package database

import (
	"time"

	"cenometr/server/internal/models"
)

// seedRow is one historical closed sale from the RCN price register.
type seedRow struct {
	date    string
	price   float64
	area    float64
	ppm2    float64
	address string
	market  string
	notes   string
}

var elkSeed = []seedRow{
	{"2025-03-05", 270000, 50.0, 5400, "ul. Wojska Polskiego 8", "pierwotny", "2 pokoje, 2 piętro"},
	{"2025-03-12", 189000, 36.0, 5250, "ul. Gdańska 3/10", "wtórny", "kawalerka, 4 piętro"},
	{"2025-03-22", 345000, 63.0, 5476, "os. Północ II 3/2", "pierwotny", "3 pokoje, 1 piętro"},
	{"2025-04-03", 231000, 42.0, 5500, "ul. Mickiewicza 5", "wtórny", "2 pokoje, 3 piętro"},
	{"2025-04-15", 357500, 65.0, 5500, "ul. Słowackiego 12", "pierwotny", "3 pokoje, parter"},
	{"2025-04-28", 148500, 27.0, 5500, "ul. Kilińskiego 8", "wtórny", "kawalerka, 1 piętro"},
	{"2025-04-30", 299200, 52.0, 5754, "ul. Armii Krajowej 20", "pierwotny", "2 pokoje, nowsze budownictwo"},
	{"2025-05-08", 286000, 52.0, 5500, "ul. Piłsudskiego 14", "pierwotny", "2 pokoje, 2 piętro"},
	{"2025-05-19", 396000, 66.0, 6000, "ul. Grunwaldzka 10", "pierwotny", "3 pokoje, 3 piętro, nowy blok"},
	{"2025-05-25", 204000, 34.0, 6000, "ul. Dąbrowskiego 6", "wtórny", "1 pokój z aneksem"},
	{"2025-06-02", 312000, 52.0, 6000, "ul. Wojska Polskiego 18", "pierwotny", "2 pokoje, 4 piętro"},
	{"2025-06-14", 250000, 44.0, 5682, "os. Jeziorna 7/3", "wtórny", "2 pokoje, parter"},
	{"2025-06-20", 414000, 69.0, 6000, "ul. Słowackiego 20", "pierwotny", "4 pokoje, 2 piętro"},
	{"2025-06-30", 180000, 30.0, 6000, "ul. Gdańska 15", "wtórny", "kawalerka, 3 piętro"},
	{"2025-07-05", 295000, 50.0, 5900, "ul. Piłsudskiego 22", "pierwotny", "2 pokoje, 1 piętro"},
	{"2025-07-12", 372600, 62.1, 6000, "ul. Grunwaldzka 30", "pierwotny", "3 pokoje, 2 piętro"},
	{"2025-07-25", 258000, 43.0, 6000, "ul. Armii Krajowej 5", "wtórny", "2 pokoje, 2 piętro"},
	{"2025-08-04", 318000, 53.0, 6000, "os. Północ II 8/4", "pierwotny", "2 pokoje, 3 piętro"},
	{"2025-08-15", 302500, 55.0, 5500, "ul. Wojska Polskiego 12", "pierwotny", "2 pokoje, parter"},
	{"2025-08-22", 198000, 33.0, 6000, "ul. Kilińskiego 14", "wtórny", "kawalerka, 2 piętro"},
	{"2025-08-30", 426000, 66.0, 6455, "ul. Mickiewicza 8/1", "pierwotny", "3 pokoje, nowe osiedle"},
	{"2025-09-03", 378000, 63.0, 6000, "ul. Gdańska 8/4", "pierwotny", "3 pokoje, 2 piętro"},
	{"2025-09-15", 330000, 55.0, 6000, "ul. Dąbrowskiego 20", "pierwotny", "2 pokoje, 2 piętro"},
	{"2025-09-22", 264000, 44.0, 6000, "ul. Armii Krajowej 15", "wtórny", "2 pokoje, 3 piętro"},
	{"2025-09-28", 210000, 35.0, 6000, "ul. Piłsudskiego 3", "wtórny", "1 pokój, 4 piętro"},
	{"2025-10-10", 336000, 56.0, 6000, "ul. Mickiewicza 3/12", "pierwotny", "3 pokoje, 1 piętro"},
	{"2025-10-18", 351000, 54.0, 6500, "os. Północ II 12", "pierwotny", "2 pokoje, nowsze budownictwo"},
	{"2025-10-28", 325000, 50.0, 6500, "ul. Piłsudskiego 7", "pierwotny", "2 pokoje, 4 piętro"},
	{"2025-11-05", 195000, 30.0, 6500, "ul. Kilińskiego 22", "wtórny", "kawalerka, 2 piętro"},
	{"2025-11-14", 390000, 60.0, 6500, "ul. Słowackiego 5", "pierwotny", "3 pokoje, 2 piętro"},
	{"2025-11-18", 429000, 66.0, 6500, "ul. Grunwaldzka 44", "pierwotny", "3 pokoje, 3 piętro"},
	{"2025-11-28", 286000, 44.0, 6500, "ul. Wojska Polskiego 25", "wtórny", "2 pokoje, 1 piętro"},
	{"2025-12-02", 287000, 41.0, 7000, "os. Północ II 5/8", "pierwotny", "2 pokoje, nowsze budownictwo"},
	{"2025-12-12", 455000, 65.0, 7000, "ul. Grunwaldzka 50", "pierwotny", "3 pokoje, nowe, wykończone"},
	{"2025-12-20", 462000, 66.0, 7000, "ul. Słowackiego 9", "pierwotny", "3 pokoje, 2 piętro"},
	{"2025-12-28", 224000, 32.0, 7000, "ul. Gdańska 20", "wtórny", "kawalerka, 3 piętro"},
	{"2026-01-08", 350000, 50.0, 7000, "ul. Wojska Polskiego 30", "pierwotny", "2 pokoje, 1 piętro, nowe"},
	{"2026-01-15", 469000, 67.0, 7000, "ul. Mickiewicza 15", "pierwotny", "3 pokoje, 2 piętro, wykończone"},
	{"2026-01-22", 245000, 35.0, 7000, "ul. Dąbrowskiego 14", "wtórny", "kawalerka z aneksem kuchennym"},
	{"2026-01-30", 378000, 54.0, 7000, "os. Jeziorna 12/5", "pierwotny", "2 pokoje, 3 piętro, nowe"},
}

var suwalkiSeed = []seedRow{
	{"2025-03-08", 300000, 54.0, 5556, "ul. Noniewicza 10", "wtórny", "3 pokoje, 1 piętro"},
	{"2025-03-18", 265000, 50.0, 5300, "ul. Kościuszki 8", "pierwotny", "2 pokoje, 2 piętro"},
	{"2025-03-28", 180000, 33.0, 5455, "os. II 8/4", "wtórny", "kawalerka, parter"},
	{"2025-04-05", 330000, 60.0, 5500, "ul. Utrata 5", "pierwotny", "3 pokoje, 3 piętro"},
	{"2025-04-14", 280500, 51.0, 5500, "ul. Hamerszmita 6", "wtórny", "2 pokoje, 1 piętro"},
	{"2025-04-25", 192500, 35.0, 5500, "ul. Wigierska 4", "wtórny", "1 pokój z aneksem, 2 piętro"},
	{"2025-04-30", 385000, 70.0, 5500, "ul. Sejneńska 10", "pierwotny", "4 pokoje, 1 piętro"},
	{"2025-05-10", 306000, 51.0, 6000, "ul. Bakałarzewska 20", "pierwotny", "2 pokoje, 3 piętro"},
	{"2025-05-18", 234000, 39.0, 6000, "ul. Pułaskiego 12", "wtórny", "1 pokój, 4 piętro"},
	{"2025-05-28", 420000, 70.0, 6000, "ul. Noniewicza 25", "pierwotny", "4 pokoje, 2 piętro"},
	{"2025-06-05", 318000, 53.0, 6000, "ul. Filipowska 8", "pierwotny", "2 pokoje, 2 piętro"},
	{"2025-06-15", 252000, 42.0, 6000, "ul. Kościuszki 15", "wtórny", "2 pokoje, 3 piętro"},
	{"2025-06-22", 390000, 65.0, 6000, "ul. Utrata 12", "pierwotny", "3 pokoje, 1 piętro"},
	{"2025-06-30", 186000, 31.0, 6000, "os. II 10/6", "wtórny", "kawalerka, 3 piętro"},
	{"2025-07-08", 330000, 55.0, 6000, "ul. Bakałarzewska 35", "pierwotny", "2 pokoje, 4 piętro"},
	{"2025-07-15", 396000, 66.0, 6000, "ul. Sejneńska 8", "pierwotny", "3 pokoje, parter"},
	{"2025-07-28", 240000, 40.0, 6000, "ul. Hamerszmita 18", "wtórny", "2 pokoje, 2 piętro"},
	{"2025-08-03", 348000, 58.0, 6000, "ul. Filipowska 14", "pierwotny", "3 pokoje, 2 piętro"},
	{"2025-08-10", 348000, 60.0, 5800, "ul. Noniewicza 15", "wtórny", "3 pokoje, parter"},
	{"2025-08-18", 192000, 32.0, 6000, "ul. Pułaskiego 8", "wtórny", "kawalerka, 1 piętro"},
	{"2025-08-28", 312000, 52.0, 6000, "ul. Wigierska 10", "pierwotny", "2 pokoje, 3 piętro"},
	{"2025-09-05", 305000, 50.0, 6100, "ul. Kościuszki 22", "pierwotny", "2 pokoje, 3 piętro"},
	{"2025-09-15", 360000, 60.0, 6000, "ul. Utrata 15/2", "pierwotny", "3 pokoje, 2 piętro"},
	{"2025-09-25", 390000, 60.0, 6500, "ul. Utrata 8/3", "pierwotny", "3 pokoje, 1 piętro"},
	{"2025-09-30", 208000, 32.0, 6500, "ul. Noniewicza 5", "wtórny", "1 pokój, 4 piętro"},
	{"2025-10-08", 338000, 52.0, 6500, "ul. Bakałarzewska 40", "pierwotny", "2 pokoje, 1 piętro"},
	{"2025-10-15", 273000, 42.0, 6500, "ul. Hamerszmita 12", "wtórny", "2 pokoje, 4 piętro"},
	{"2025-10-30", 455000, 70.0, 6500, "ul. Sejneńska 3", "pierwotny", "4 pokoje, 2 piętro"},
	{"2025-11-06", 325000, 50.0, 6500, "ul. Filipowska 25", "pierwotny", "2 pokoje, 2 piętro"},
	{"2025-11-12", 208000, 32.0, 6500, "os. II 14/2", "wtórny", "kawalerka"},
	{"2025-11-20", 416000, 64.0, 6500, "ul. Kościuszki 30", "pierwotny", "3 pokoje, 3 piętro"},
	{"2025-11-28", 406000, 58.0, 7000, "ul. Bakałarzewska 67", "pierwotny", "3 pokoje, nowe osiedle"},
	{"2025-12-05", 350000, 50.0, 7000, "ul. Wigierska 14", "pierwotny", "2 pokoje, 1 piętro"},
	{"2025-12-10", 336000, 48.0, 7000, "ul. Filipowska 20", "pierwotny", "2 pokoje, 4 piętro"},
	{"2025-12-22", 227500, 35.0, 6500, "ul. Pułaskiego 5", "wtórny", "1 pokój z aneksem"},
	{"2025-12-30", 490000, 70.0, 7000, "ul. Sejneńska 12", "pierwotny", "4 pokoje, premium"},
	{"2026-01-10", 525000, 70.0, 7500, "ul. Noniewicza 40", "pierwotny", "4 pokoje, premium"},
	{"2026-01-18", 360000, 48.0, 7500, "ul. Utrata 20", "pierwotny", "2 pokoje, nowe, wykończone"},
	{"2026-01-25", 375000, 50.0, 7500, "ul. Wigierska 18", "pierwotny", "2 pokoje, nowe, wykończone"},
	{"2026-01-31", 240000, 34.0, 7059, "ul. Hamerszmita 22", "wtórny", "1 pokój, 2 piętro, po remoncie"},
}

// SeedDefaultTransactions loads the historical RCN transaction set on a
// fresh database. Returns true when seeding ran so the caller can rebuild
// the transaction snapshots.
func (d *Database) SeedDefaultTransactions() (bool, error) {
	var count int64
	if err := d.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	transactions := make([]models.Transaction, 0, len(elkSeed)+len(suwalkiSeed))
	for cityID, rows := range map[int64][]seedRow{1: elkSeed, 2: suwalkiSeed} {
		for _, row := range rows {
			address := row.address
			notes := row.notes
			transactions = append(transactions, models.Transaction{
				CityID:          cityID,
				TransactionDate: row.date,
				Price:           row.price,
				Area:            row.area,
				PricePerM2:      row.ppm2,
				Address:         &address,
				PropertyType:    "mieszkanie",
				MarketType:      row.market,
				Source:          "RCN",
				Notes:           &notes,
				CreatedAt:       time.Now(),
			})
		}
	}

	if _, err := d.AddTransactionsBulk(transactions); err != nil {
		return false, err
	}
	return true, nil
}

package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
}

// force timezone to German civil time because the ratsinfomanagement
// calendar labels everything in it, and servers running elsewhere will
// shift dates when manipulating them based on <time.Time>.Year()/Month()/Day()
func Now() time.Time {
	return time.Now().In(Location)
}

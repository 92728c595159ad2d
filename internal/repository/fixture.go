package repository

import (
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

// Fixture is the reference dataset the service ships with: five airports,
// two aircraft types, seventy flights and two users.
type Fixture struct {
	Airports      []domain.Airport
	AircraftTypes []domain.AircraftType
	Flights       []*domain.Flight
	Users         []*domain.User
}

var (
	dreamliner = domain.AircraftType{
		ID:   1,
		Name: "787-9 Dreamliner",
		SeatingZones: []domain.SeatingZone{
			{CabinClass: domain.CabinClassBusiness, StartRow: 1, EndRow: 7, Columns: "ABJK"},
			{CabinClass: domain.CabinClassPremiumEconomy, StartRow: 20, EndRow: 25, Columns: "ACDEFHK"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 30, EndRow: 39, Columns: "ABCDEFHJK"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 40, EndRow: 49, Columns: "ABCDEFHJK"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 50, EndRow: 54, Columns: "ABCDEFHJK"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 56, EndRow: 56, Columns: "ABC"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 59, EndRow: 60, Columns: "AB"},
		},
	}
	tripleSeven = domain.AircraftType{
		ID:   2,
		Name: "777-200ER",
		SeatingZones: []domain.SeatingZone{
			{CabinClass: domain.CabinClassBusiness, StartRow: 1, EndRow: 7, Columns: "ACDGHK"},
			{CabinClass: domain.CabinClassPremiumEconomy, StartRow: 15, EndRow: 19, Columns: "ACDEGHK"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 30, EndRow: 39, Columns: "ABCDEFGHJK"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 40, EndRow: 47, Columns: "ABCDEFGHJK"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 50, EndRow: 51, Columns: "DEFG"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 52, EndRow: 52, Columns: "DEFG"},
			{CabinClass: domain.CabinClassEconomy, StartRow: 53, EndRow: 53, Columns: "EF"},
		},
	}

	airports = []domain.Airport{
		{ID: 1, Name: "Auckland International Airport", Code: "AKL", Latitude: -37.008, Longitude: 174.792, TimeZone: "Pacific/Auckland"},
		{ID: 2, Name: "Sydney International Airport", Code: "SYD", Latitude: -33.946, Longitude: 151.177, TimeZone: "Australia/Sydney"},
		{ID: 3, Name: "Tokyo Narita International Airport", Code: "NRT", Latitude: 35.765, Longitude: 140.386, TimeZone: "Asia/Tokyo"},
		{ID: 4, Name: "Singapore Changi International Airport", Code: "SIN", Latitude: 1.356, Longitude: 103.987, TimeZone: "Asia/Singapore"},
		{ID: 5, Name: "Los Angeles International Airport", Code: "LAX", Latitude: 33.942, Longitude: -118.408, TimeZone: "America/Los_Angeles"},
	}
)

type flightRow struct {
	id          int64
	name        string
	departure   string
	origin      string
	arrival     string
	destination string
	aircraft    domain.AircraftType
	economy     int
	premium     int
	business    int
}

var flightRows = []flightRow{
	{1, "ZNJ-242", "2022-08-11T13:00:00Z", "AKL", "2022-08-11T16:10:00Z", "SYD", tripleSeven, 187, 424, 1696},
	{2, "WJF-883", "2022-08-23T19:00:00Z", "AKL", "2022-08-23T22:10:00Z", "SYD", tripleSeven, 194, 438, 1772},
	{3, "ZWZ-576", "2022-08-29T07:00:00Z", "AKL", "2022-08-29T10:10:00Z", "SYD", tripleSeven, 201, 452, 1848},
	{4, "YLJ-355", "2022-08-31T04:00:00Z", "AKL", "2022-08-31T07:10:00Z", "SYD", dreamliner, 208, 466, 1924},
	{5, "BLG-598", "2022-08-29T07:00:00Z", "AKL", "2022-08-29T18:30:00Z", "NRT", tripleSeven, 455, 960, 4160},
	{6, "VID-108", "2022-08-30T02:00:00Z", "AKL", "2022-08-30T13:30:00Z", "NRT", dreamliner, 422, 894, 3876},
	{7, "IMQ-765", "2022-08-26T23:00:00Z", "AKL", "2022-08-27T10:30:00Z", "NRT", tripleSeven, 429, 908, 3952},
	{8, "VRT-298", "2022-08-25T04:00:00Z", "AKL", "2022-08-25T15:00:00Z", "SIN", dreamliner, 406, 862, 3758},
	{9, "JQB-702", "2022-08-16T17:00:00Z", "AKL", "2022-08-17T04:00:00Z", "SIN", dreamliner, 413, 876, 3834},
	{10, "FEX-930", "2022-08-11T05:00:00Z", "AKL", "2022-08-11T16:00:00Z", "SIN", tripleSeven, 420, 890, 3910},
	{11, "IEE-697", "2022-08-11T03:00:00Z", "AKL", "2022-08-11T14:00:00Z", "SIN", dreamliner, 427, 904, 3986},
	{12, "PWK-304", "2022-08-16T12:00:00Z", "AKL", "2022-08-17T01:30:00Z", "LAX", dreamliner, 524, 1098, 4872},
	{13, "YFJ-842", "2022-08-20T04:00:00Z", "AKL", "2022-08-20T17:30:00Z", "LAX", dreamliner, 531, 1112, 4948},
	{14, "DDE-510", "2022-08-16T12:00:00Z", "AKL", "2022-08-17T01:30:00Z", "LAX", dreamliner, 538, 1126, 5024},
	{15, "ZZO-347", "2022-08-09T13:00:00Z", "AKL", "2022-08-10T02:30:00Z", "LAX", dreamliner, 545, 1140, 5100},
	{16, "QQE-292", "2022-08-31T01:00:00Z", "SYD", "2022-08-31T04:10:00Z", "AKL", tripleSeven, 212, 474, 1916},
	{17, "BBB-122", "2022-08-15T08:00:00Z", "SYD", "2022-08-15T11:10:00Z", "AKL", dreamliner, 219, 488, 1992},
	{18, "OWX-760", "2022-08-27T12:00:00Z", "SYD", "2022-08-27T15:10:00Z", "AKL", tripleSeven, 186, 422, 1708},
	{19, "ZWE-876", "2022-09-04T05:00:00Z", "SYD", "2022-09-04T08:10:00Z", "AKL", tripleSeven, 193, 436, 1784},
	{20, "DQL-372", "2022-08-11T09:00:00Z", "SYD", "2022-08-11T19:10:00Z", "NRT", tripleSeven, 420, 890, 3840},
	{21, "UQL-438", "2022-08-11T14:00:00Z", "SYD", "2022-08-12T00:10:00Z", "NRT", dreamliner, 427, 904, 3916},
	{22, "RXU-158", "2022-09-07T00:00:00Z", "SYD", "2022-09-07T10:10:00Z", "NRT", tripleSeven, 434, 918, 3992},
	{23, "EYF-144", "2022-09-07T11:00:00Z", "SYD", "2022-09-07T19:20:00Z", "SIN", dreamliner, 331, 712, 3078},
	{24, "HCD-255", "2022-09-05T04:00:00Z", "SYD", "2022-09-05T12:20:00Z", "SIN", tripleSeven, 338, 726, 3154},
	{25, "SED-857", "2022-08-15T23:00:00Z", "SYD", "2022-08-16T07:20:00Z", "SIN", dreamliner, 345, 740, 3230},
	{26, "QAA-364", "2022-08-17T09:00:00Z", "SYD", "2022-08-18T00:30:00Z", "LAX", dreamliner, 582, 1214, 5376},
	{27, "FOS-262", "2022-09-07T11:00:00Z", "SYD", "2022-09-08T02:30:00Z", "LAX", tripleSeven, 589, 1228, 5452},
	{28, "NLX-575", "2022-08-19T15:00:00Z", "SYD", "2022-08-20T06:30:00Z", "LAX", tripleSeven, 596, 1242, 5528},
	{29, "IDD-802", "2022-09-01T14:00:00Z", "NRT", "2022-09-02T01:30:00Z", "AKL", tripleSeven, 423, 896, 3984},
	{30, "YHQ-591", "2022-08-22T04:00:00Z", "NRT", "2022-08-22T15:30:00Z", "AKL", dreamliner, 430, 910, 4060},
	{31, "CML-765", "2022-08-30T19:00:00Z", "NRT", "2022-08-31T06:30:00Z", "AKL", dreamliner, 437, 924, 3936},
	{32, "GMX-889", "2022-08-21T10:00:00Z", "NRT", "2022-08-21T21:30:00Z", "AKL", dreamliner, 444, 938, 4012},
	{33, "GWQ-815", "2022-08-22T14:00:00Z", "NRT", "2022-08-23T00:10:00Z", "SYD", dreamliner, 431, 912, 3908},
	{34, "VWM-185", "2022-08-29T03:00:00Z", "NRT", "2022-08-29T13:10:00Z", "SYD", dreamliner, 438, 926, 3984},
	{35, "OZL-258", "2022-08-26T21:00:00Z", "NRT", "2022-08-27T07:10:00Z", "SYD", tripleSeven, 405, 860, 3700},
	{36, "QFT-111", "2022-08-15T19:00:00Z", "NRT", "2022-08-16T02:10:00Z", "SIN", tripleSeven, 312, 674, 2876},
	{37, "DPX-900", "2022-08-26T15:00:00Z", "NRT", "2022-08-26T22:10:00Z", "SIN", tripleSeven, 358, 766, 3303},
	{38, "AVE-146", "2022-09-02T02:00:00Z", "NRT", "2022-09-02T09:10:00Z", "SIN", tripleSeven, 326, 702, 3028},
	{39, "ZJX-309", "2022-08-09T23:00:00Z", "NRT", "2022-08-10T06:10:00Z", "SIN", dreamliner, 333, 716, 3104},
	{40, "ZFD-241", "2022-08-20T08:00:00Z", "NRT", "2022-08-20T19:30:00Z", "LAX", tripleSeven, 480, 1010, 4440},
	{41, "ETN-391", "2022-08-27T14:00:00Z", "NRT", "2022-08-28T01:30:00Z", "LAX", tripleSeven, 487, 1024, 4516},
	{42, "LKE-071", "2022-08-10T17:00:00Z", "NRT", "2022-08-11T04:30:00Z", "LAX", tripleSeven, 494, 1038, 4592},
	{43, "YJY-087", "2022-09-01T11:00:00Z", "SIN", "2022-09-01T22:00:00Z", "AKL", dreamliner, 350, 800, 3400},
	{44, "NAK-343", "2022-08-12T14:00:00Z", "SIN", "2022-08-13T01:00:00Z", "AKL", dreamliner, 418, 886, 3934},
	{45, "MMY-188", "2022-08-31T13:00:00Z", "SIN", "2022-09-01T00:00:00Z", "AKL", tripleSeven, 425, 900, 4010},
	{46, "VBR-241", "2022-08-18T13:00:00Z", "SIN", "2022-08-18T21:20:00Z", "SYD", tripleSeven, 332, 714, 3186},
	{47, "MTU-228", "2022-08-16T12:00:00Z", "SIN", "2022-08-16T20:20:00Z", "SYD", dreamliner, 339, 728, 3062},
	{48, "SJY-964", "2022-08-10T12:00:00Z", "SIN", "2022-08-10T20:20:00Z", "SYD", tripleSeven, 346, 742, 3138},
	{49, "FPZ-912", "2022-08-19T06:00:00Z", "SIN", "2022-08-19T14:20:00Z", "SYD", tripleSeven, 353, 756, 3214},
	{50, "FBH-075", "2022-09-06T08:00:00Z", "SIN", "2022-09-06T15:10:00Z", "NRT", dreamliner, 330, 710, 3020},
	{51, "ESE-011", "2022-08-16T22:00:00Z", "SIN", "2022-08-17T05:10:00Z", "NRT", tripleSeven, 337, 724, 3096},
	{52, "OCI-638", "2022-08-31T16:00:00Z", "SIN", "2022-08-31T23:10:00Z", "NRT", tripleSeven, 304, 658, 2812},
	{53, "IFT-689", "2022-08-15T10:00:00Z", "SIN", "2022-08-16T04:00:00Z", "LAX", tripleSeven, 621, 1292, 5678},
	{54, "SQP-422", "2022-08-26T13:00:00Z", "SIN", "2022-08-27T07:00:00Z", "LAX", dreamliner, 628, 1306, 5754},
	{55, "SUF-575", "2022-08-08T22:00:00Z", "SIN", "2022-08-09T16:00:00Z", "LAX", dreamliner, 635, 1320, 5830},
	{56, "UND-319", "2022-08-25T18:00:00Z", "SIN", "2022-08-26T12:00:00Z", "LAX", tripleSeven, 642, 1334, 5906},
	{57, "ADR-346", "2022-08-24T22:00:00Z", "LAX", "2022-08-25T11:30:00Z", "AKL", tripleSeven, 559, 1168, 5172},
	{58, "HPR-130", "2022-08-12T18:00:00Z", "LAX", "2022-08-13T07:30:00Z", "AKL", tripleSeven, 526, 1102, 4888},
	{59, "UKC-561", "2022-08-21T03:00:00Z", "LAX", "2022-08-21T16:30:00Z", "AKL", dreamliner, 533, 1116, 4964},
	{60, "ZPV-405", "2022-08-16T23:00:00Z", "LAX", "2022-08-17T14:30:00Z", "SYD", dreamliner, 580, 1210, 5400},
	{61, "AWJ-994", "2022-08-09T23:00:00Z", "LAX", "2022-08-10T14:30:00Z", "SYD", dreamliner, 587, 1224, 5476},
	{62, "FHF-294", "2022-08-19T20:00:00Z", "LAX", "2022-08-20T11:30:00Z", "SYD", tripleSeven, 594, 1238, 5352},
	{63, "YAJ-395", "2022-08-28T09:00:00Z", "LAX", "2022-08-29T00:30:00Z", "SYD", tripleSeven, 561, 1172, 5068},
	{64, "KML-365", "2022-08-10T03:00:00Z", "LAX", "2022-08-10T14:30:00Z", "NRT", dreamliner, 488, 1026, 4424},
	{65, "JNA-242", "2022-08-19T14:00:00Z", "LAX", "2022-08-20T01:30:00Z", "NRT", dreamliner, 495, 1040, 4500},
	{66, "IJQ-029", "2022-08-28T05:00:00Z", "LAX", "2022-08-28T16:30:00Z", "NRT", dreamliner, 502, 1054, 4576},
	{67, "CBM-270", "2022-09-04T13:00:00Z", "LAX", "2022-09-05T00:30:00Z", "NRT", tripleSeven, 509, 1068, 4652},
	{68, "VWR-623", "2022-08-25T14:00:00Z", "LAX", "2022-08-26T08:00:00Z", "SIN", tripleSeven, 646, 1342, 5898},
	{69, "KHS-671", "2022-08-16T01:00:00Z", "LAX", "2022-08-16T19:00:00Z", "SIN", dreamliner, 613, 1276, 5614},
	{70, "YFB-019", "2022-08-17T19:00:00Z", "LAX", "2022-08-18T13:00:00Z", "SIN", dreamliner, 620, 1290, 5690},
}

// DefaultFixture builds a fresh copy of the reference dataset. Callers may
// mutate the result.
func DefaultFixture() *Fixture {
	byCode := make(map[string]domain.Airport, len(airports))
	for _, a := range airports {
		byCode[a.Code] = a
	}

	f := &Fixture{
		Airports:      append([]domain.Airport(nil), airports...),
		AircraftTypes: []domain.AircraftType{cloneAircraft(dreamliner), cloneAircraft(tripleSeven)},
		Users: []*domain.User{
			{ID: 1, Username: "Alice", PassHash: "01bbd007a1040e3b62417e176caf7e6fa5aabdd724626c22a011e9e4e992ac35"},
			{ID: 2, Username: "Bob", PassHash: "7d4e3eec80026719639ed4dba68916eb94c7a49a053e05c8f9578fe4e5a3d7ea"},
		},
	}
	for _, r := range flightRows {
		f.Flights = append(f.Flights, &domain.Flight{
			ID:            r.id,
			Name:          r.name,
			Origin:        byCode[r.origin],
			Destination:   byCode[r.destination],
			DepartureTime: mustParseTime(r.departure),
			ArrivalTime:   mustParseTime(r.arrival),
			AircraftType:  cloneAircraft(r.aircraft),
			SeatPricings: []domain.SeatPricing{
				{CabinClass: domain.CabinClassEconomy, Price: r.economy},
				{CabinClass: domain.CabinClassPremiumEconomy, Price: r.premium},
				{CabinClass: domain.CabinClassBusiness, Price: r.business},
			},
		})
	}
	return f
}

func cloneAircraft(a domain.AircraftType) domain.AircraftType {
	a.SeatingZones = append([]domain.SeatingZone(nil), a.SeatingZones...)
	return a
}

func mustParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

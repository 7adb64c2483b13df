package tourkit_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rushteam/tourkit"
)

func ExampleOpen() {
	dir, _ := os.MkdirTemp("", "tourkit")
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "ratings.csv")
	_ = os.WriteFile(path, []byte(`UserId,AttractionId,Rating,AttractionTypeId,CityId,CountryId
A,X,5,1,10,1
A,Y,3,2,10,1
B,X,4,1,10,1
B,Y,5,2,10,1
B,Z,2,1,20,1
C,Y,1,2,10,1
C,Z,5,1,20,1
`), 0o644)

	svc, err := tourkit.Open(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer svc.Close()

	res, _ := svc.Recommend(context.Background(), tourkit.Request{
		UserID:   "A",
		Strategy: string(tourkit.StrategyCollaborative),
		TopN:     3,
	})
	for _, it := range res.Items {
		fmt.Printf("%d %s %.4f\n", it.Rank, it.AttractionID, it.Score)
	}

	res, _ = svc.Recommend(context.Background(), tourkit.Request{UserID: "Q", Strategy: "cf", TopN: 3})
	fmt.Println(res.Message())
	// Output:
	// 1 Z 2.3040
	// no recommendations available
}

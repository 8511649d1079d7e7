// Command coarse-register runs a single coarse registration between two
// whitespace-separated xyz point dumps, for ad-hoc local experimentation
// with registration.CoarseRegistrar outside of a test harness.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/geosim/tpcl/features"
	"github.com/geosim/tpcl/pointcloud"
	"github.com/geosim/tpcl/registration"
)

func main() {
	mainPath := flag.String("main", "", "path to the main point cloud (whitespace-separated x y z per line)")
	secondaryPath := flag.String("secondary", "", "path to the secondary point cloud to register against main")
	flag.Parse()

	logger := golog.NewDevelopmentLogger("coarse-register")

	if *mainPath == "" || *secondaryPath == "" {
		logger.Error("both -main and -secondary are required")
		os.Exit(2)
	}

	mainPoints, err := readXYZ(*mainPath)
	if err != nil {
		logger.Fatalw("failed to read main cloud", "error", errors.Wrap(err, *mainPath))
	}
	secondaryPoints, err := readXYZ(*secondaryPath)
	if err != nil {
		logger.Fatalw("failed to read secondary cloud", "error", errors.Wrap(err, *secondaryPath))
	}

	mainCloud := pointcloud.New()
	for _, p := range mainPoints {
		if err := mainCloud.Set(p); err != nil {
			logger.Fatalw("failed to build main cloud", "error", err)
		}
	}

	registrar := registration.NewCoarseRegistrar(registration.DefaultOptions())
	if err := registrar.MainPointCloudUpdate(mainCloud, true); err != nil {
		logger.Fatalw("dictionary build failed", "error", err)
	}

	transform, score := registrar.SecondaryPointCloudRegistration(&features.Cloud{Positions: secondaryPoints}, nil)
	fmt.Printf("score=%g translation=%+v\n", score, transform.T)
}

func readXYZ(path string) ([]r3.Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points []r3.Vector
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var p r3.Vector
		if _, err := fmt.Sscanf(scanner.Text(), "%f %f %f", &p.X, &p.Y, &p.Z); err != nil {
			continue
		}
		points = append(points, p)
	}
	return points, scanner.Err()
}

// Command artifact-check loads a model artifact the way the server does,
// prints its summary and optionally scores one patient given on the
// command line.
//
//	artifact-check -model cad_model.json -age 60 -sex Male -bmi 27 \
//	    -ldl 150 -hdl 40 -ef 55 -vhd N -bp 130
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"

	"github.com/Skufu/cadrisk/internal/model"
	"github.com/Skufu/cadrisk/internal/predict"
)

var formFields = []string{
	predict.FieldAge, predict.FieldSex, predict.FieldBMI, predict.FieldDM, predict.FieldHTN,
	predict.FieldSmoker, predict.FieldLDL, predict.FieldHDL, predict.FieldEF, predict.FieldVHD,
	predict.FieldBP,
}

func main() {
	logger := log.New(os.Stderr, "[artifact-check] ", log.LstdFlags)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logger.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("artifact-check", flag.ContinueOnError)
	modelPath := fs.String("model", "cad_model.json", "Path to the model artifact")
	values := make(map[string]*string, len(formFields))
	for _, name := range formFields {
		values[name] = fs.String(name, "", "Form value for "+name)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	artifact, err := model.LoadArtifact(*modelPath)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	form := url.Values{}
	fs.Visit(func(f *flag.Flag) {
		if v, ok := values[f.Name]; ok {
			form.Set(f.Name, *v)
		}
	})

	report := struct {
		Model  model.Summary   `json:"model"`
		Result *predict.Result `json:"result,omitempty"`
	}{Model: artifact.Summary()}

	if len(form) > 0 {
		svc, err := predict.NewService(artifact, 0)
		if err != nil {
			return err
		}
		res, err := svc.Predict(form)
		if err != nil {
			return fmt.Errorf("prediction failed: %w", err)
		}
		report.Result = &res
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

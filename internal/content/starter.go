package content

// StarterPackYAML is the content pack seeded by first-run setup. It covers
// all four number patterns so every arm is selectable out of the box.
const StarterPackYAML = `id: prices-starter
name: Kainos (starter)
version: "1.0"
description: Starter price phrases covering every number pattern
language: lt
rows:
  - number: 1
    kokia_kaina: vienas
    euro_nom: euras
    kiek_kainuoja: vieną
    euro_acc: eurą
  - number: 2
    kokia_kaina: du
    euro_nom: eurai
    kiek_kainuoja: du
    euro_acc: eurus
  - number: 3
    kokia_kaina: trys
    euro_nom: eurai
    kiek_kainuoja: tris
    euro_acc: eurus
  - number: 5
    kokia_kaina: penki
    euro_nom: eurai
    kiek_kainuoja: penkis
    euro_acc: eurus
  - number: 7
    kokia_kaina: septyni
    euro_nom: eurai
    kiek_kainuoja: septynis
    euro_acc: eurus
  - number: 9
    kokia_kaina: devyni
    euro_nom: eurai
    kiek_kainuoja: devynis
    euro_acc: eurus
  - number: 10
    kokia_kaina: dešimt
    euro_nom: eurų
    kiek_kainuoja: dešimt
    euro_acc: eurų
  - number: 11
    kokia_kaina: vienuolika
    euro_nom: eurų
    kiek_kainuoja: vienuolika
    euro_acc: eurų
  - number: 15
    kokia_kaina: penkiolika
    euro_nom: eurų
    kiek_kainuoja: penkiolika
    euro_acc: eurų
  - number: 19
    kokia_kaina: devyniolika
    euro_nom: eurų
    kiek_kainuoja: devyniolika
    euro_acc: eurų
  - number: 20
    kokia_kaina: dvidešimt
    euro_nom: eurų
    kiek_kainuoja: dvidešimt
    euro_acc: eurų
  - number: 30
    kokia_kaina: trisdešimt
    euro_nom: eurų
    kiek_kainuoja: trisdešimt
    euro_acc: eurų
  - number: 50
    kokia_kaina: penkiasdešimt
    euro_nom: eurų
    kiek_kainuoja: penkiasdešimt
    euro_acc: eurų
  - number: 90
    kokia_kaina: devyniasdešimt
    euro_nom: eurų
    kiek_kainuoja: devyniasdešimt
    euro_acc: eurų
  - number: 21
    kokia_kaina: dvidešimt
    kokia_kaina_compound: vienas
    euro_nom: euras
    kiek_kainuoja: dvidešimt
    kiek_kainuoja_compound: vieną
    euro_acc: eurą
  - number: 25
    kokia_kaina: dvidešimt
    kokia_kaina_compound: penki
    euro_nom: eurai
    kiek_kainuoja: dvidešimt
    kiek_kainuoja_compound: penkis
    euro_acc: eurus
  - number: 47
    kokia_kaina: keturiasdešimt
    kokia_kaina_compound: septyni
    euro_nom: eurai
    kiek_kainuoja: keturiasdešimt
    kiek_kainuoja_compound: septynis
    euro_acc: eurus
  - number: 99
    kokia_kaina: devyniasdešimt
    kokia_kaina_compound: devyni
    euro_nom: eurai
    kiek_kainuoja: devyniasdešimt
    kiek_kainuoja_compound: devynis
    euro_acc: eurus
`
